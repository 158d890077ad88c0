// Package display turns a plant state into the labels, icon and notification shown to the user.
package display

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rcliao/plants/internal/model"
)

// Label texts.
const (
	StatusNew        = "You got a new plant! Water it."
	StatusBlooming   = "Your plant is blooming!"
	StatusNeedsWater = "Your plant needs water."
	StatusDead       = "Your plant died."

	ScoreNew  = "New plant"
	ScoreDead = "Your plant died. Water it to start again."

	NotifyTooSoon = "You already watered your plant. Try again later."
)

// View is everything the screen shows for one evaluation.
type View struct {
	State        model.State `json:"state"`
	Status       string      `json:"status"`
	Icon         model.Icon  `json:"icon"`
	Score        string      `json:"score"`
	Notification string      `json:"notification,omitempty"`
}

// Render builds the view for state at now.
func Render(state model.State, r model.Record, now time.Time) View {
	switch state {
	case model.StateNew:
		return View{State: state, Status: StatusNew, Icon: model.IconOK, Score: ScoreNew}
	case model.StateBlooming:
		return View{State: state, Status: StatusBlooming, Icon: model.IconGood, Score: Score(r.FirstWatered, now)}
	case model.StateNeedsWater:
		return View{State: state, Status: StatusNeedsWater, Icon: model.IconOK, Score: Score(r.FirstWatered, now)}
	default:
		return View{State: model.StateDead, Status: StatusDead, Icon: model.IconBad, Score: ScoreDead}
	}
}

// Score is the "Planted 3 hours ago" label.
func Score(firstWatered, now time.Time) string {
	if firstWatered.IsZero() {
		return ScoreNew
	}
	return "Planted " + Since(firstWatered, now)
}

// Since formats the distance from then to now, e.g. "3 hours ago".
func Since(then, now time.Time) string {
	return humanize.RelTime(then, now, "ago", "from now")
}

// WithNotification returns v carrying the one-shot notice for outcome.
func WithNotification(v View, outcome model.Outcome) View {
	if outcome == model.OutcomeTooSoon {
		v.Notification = NotifyTooSoon
	}
	return v
}
