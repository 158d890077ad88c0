package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/plants/internal/metrics"
	"github.com/rcliao/plants/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Write Prometheus metrics for every plant",
		Long:  "Evaluate every plant and write its state and watering counts to a node exporter textfile.",
		Run:   runMetrics,
	}

	cmd.Flags().String("textfile", "", "Output path, e.g. /var/lib/node_exporter/plants.prom (required)")
	cmd.MarkFlagRequired("textfile")

	RootCmd.AddCommand(cmd)
}

func runMetrics(cmd *cobra.Command, args []string) {
	path, _ := cmd.Flags().GetString("textfile")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec := metrics.NewPrometheusRecorder(nil)

	plants, err := s.ListPlants(cmd.Context())
	if err != nil {
		exitErr("list", err)
	}
	for _, p := range plants {
		if _, err := newKeeper(s, p.Plant, rec).Refresh(cmd.Context()); err != nil {
			exitErr("refresh "+p.Plant, err)
		}
	}

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}
	for _, ps := range stats.Plants {
		rec.AddWaterings(ps.Plant, model.OutcomeWatered, ps.Accepted)
		rec.AddWaterings(ps.Plant, model.OutcomeTooSoon, ps.TooSoon)
	}

	if err := rec.WriteTextfile(path); err != nil {
		exitErr("metrics", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"plants":%d,"path":%q}`+"\n", len(plants), path)
}
