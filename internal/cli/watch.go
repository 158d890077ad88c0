package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/plants/internal/display"
	"github.com/rcliao/plants/internal/plant"
	"github.com/rcliao/plants/internal/watch"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep checking on the plant until interrupted",
		Long:  "Refresh the plant on an interval and print every state change. Stops on Ctrl-C.",
		Run:   runWatch,
	}

	cmd.Flags().Duration("every", time.Minute, "Refresh interval")

	RootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	every, _ := cmd.Flags().GetDuration("every")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	w, err := watch.New(newKeeper(s, getPlant(), nil), watch.Options{
		Every: every,
		OnReport: func(rep *plant.Report, changed bool) {
			if !changed {
				return
			}
			if formatFlag == "text" {
				fmt.Fprintln(out, display.Text(rep.View))
				return
			}
			b, _ := json.Marshal(rep)
			fmt.Fprintln(out, string(b))
		},
	})
	if err != nil {
		exitErr("watch", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		exitErr("watch", err)
	}
}
