package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export plants as JSON",
		Long:  "Export plant records and watering journals as JSON. Limit to one plant with --only.",
		Run:   runExport,
	}

	cmd.Flags().String("only", "", "Export a single plant")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	only, _ := cmd.Flags().GetString("only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	dumps, err := s.ExportAll(cmd.Context(), only)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd.OutOrStdout(), dumps)
}
