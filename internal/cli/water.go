package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "water",
		Short: "Water the plant",
		Long:  "Water the plant. Watering again within the cooldown is refused with outcome too_soon and leaves the plant unchanged.",
		Run:   runWater,
	}

	RootCmd.AddCommand(cmd)
}

func runWater(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rep, err := newKeeper(s, getPlant(), nil).Water(cmd.Context())
	if err != nil {
		exitErr("water", err)
	}

	printReport(cmd.OutOrStdout(), rep)
}
