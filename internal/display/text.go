package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/plants/internal/model"
)

var (
	colorGood = lipgloss.Color("#8BC34A")
	colorOK   = lipgloss.Color("#FFC107")
	colorBad  = lipgloss.Color("#e53935")
	colorInfo = lipgloss.Color("#2196F3")

	statusStyle = lipgloss.NewStyle().Bold(true)
	scoreStyle  = lipgloss.NewStyle().Faint(true)
	noticeStyle = lipgloss.NewStyle().Foreground(colorInfo).Italic(true)
)

// iconGlyphs stand in for the plant pictures in a terminal.
var iconGlyphs = map[model.Icon]string{
	model.IconGood: "🌸",
	model.IconOK:   "🌱",
	model.IconBad:  "🥀",
}

func iconColor(i model.Icon) lipgloss.Color {
	switch i {
	case model.IconGood:
		return colorGood
	case model.IconBad:
		return colorBad
	default:
		return colorOK
	}
}

// Text renders v for a terminal, one label per line.
func Text(v View) string {
	var b strings.Builder
	if v.Notification != "" {
		b.WriteString(noticeStyle.Render(v.Notification))
		b.WriteString("\n")
	}
	icon := iconGlyphs[v.Icon]
	b.WriteString(icon + " " + statusStyle.Foreground(iconColor(v.Icon)).Render(v.Status))
	b.WriteString("\n")
	b.WriteString(scoreStyle.Render(v.Score))
	return b.String()
}
