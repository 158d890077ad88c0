package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show how the plant is doing",
		Long:  "Evaluate the plant as of now. A plant found dead starts over on its next watering.",
		Run:   runStatus,
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute the plant display without watering",
		Run:   runStatus,
	}

	RootCmd.AddCommand(statusCmd, refreshCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	k := newKeeper(s, getPlant(), nil)
	var open = k.Open
	if cmd.Name() == "refresh" {
		open = k.Refresh
	}
	rep, err := open(cmd.Context())
	if err != nil {
		exitErr(cmd.Name(), err)
	}

	printReport(cmd.OutOrStdout(), rep)
}
