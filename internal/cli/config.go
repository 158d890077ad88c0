package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var saveConfig bool

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Print the configuration after file, .env and environment overrides are applied. With --save, write it to the config file.",
		Run:   runConfig,
	}
	cmd.Flags().BoolVar(&saveConfig, "save", false, "Write the effective configuration to the config file")

	RootCmd.AddCommand(cmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	c := *cfg
	c.DBPath = getDBPath()
	c.Plant = getPlant()

	if saveConfig {
		if err := c.Save(cfgFile); err != nil {
			exitErr("save config", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q}`+"\n", cfgFile)
		return
	}

	if formatFlag == "text" {
		b, err := yaml.Marshal(&c)
		if err != nil {
			exitErr("marshal config", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return
	}
	printJSON(cmd.OutOrStdout(), map[string]interface{}{
		"path":         cfgFile,
		"db_path":      c.DBPath,
		"plant":        c.Plant,
		"min_rewater":  c.Thresholds().MinReWater.String(),
		"max_survival": c.Thresholds().MaxSurvival.String(),
		"log_level":    c.LogLevel,
	})
}
