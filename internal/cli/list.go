package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plants",
		Run:   runList,
	}

	cmd.Flags().Bool("names-only", false, "Only output plant names")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	namesOnly, _ := cmd.Flags().GetBool("names-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	plants, err := s.ListPlants(cmd.Context())
	if err != nil {
		exitErr("list", err)
	}

	if namesOnly {
		for _, p := range plants {
			fmt.Fprintln(cmd.OutOrStdout(), p.Plant)
		}
		return
	}

	printJSON(cmd.OutOrStdout(), plants)
}
