package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/plants/internal/display"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the watering journal",
		Run:   runHistory,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max entries")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	k := newKeeper(s, getPlant(), nil)
	entries, err := k.History(cmd.Context(), limit)
	if err != nil {
		exitErr("history", err)
	}

	out := cmd.OutOrStdout()
	if formatFlag == "text" {
		now := k.Now()
		for _, w := range entries {
			fmt.Fprintf(out, "%s  %-8s  %s\n", w.At.Local().Format("2006-01-02 15:04"), w.Outcome, display.Since(w.At, now))
		}
		return
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "[]")
		return
	}
	printJSON(out, entries)
}
