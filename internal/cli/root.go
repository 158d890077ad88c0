// Package cli implements the plants CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/plants/internal/config"
	"github.com/rcliao/plants/internal/display"
	"github.com/rcliao/plants/internal/engine"
	"github.com/rcliao/plants/internal/logfields"
	"github.com/rcliao/plants/internal/metrics"
	"github.com/rcliao/plants/internal/plant"
	"github.com/rcliao/plants/internal/store"
)

var (
	dbPath     string
	configPath string
	plantName  string
	formatFlag string
	verbose    bool

	cfg     *config.Config
	cfgFile string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "plants",
	Short: "Keep a virtual plant alive",
	Long:  "A tiny CLI plant. Water it at least once a day, but not more than once an hour. SQLite-backed, single binary.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := setup(); err != nil {
			exitErr("config", err)
		}
		slog.Debug("running", logfields.Command(cmd.Name()), logfields.Path(getDBPath()))
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $PLANTS_DB or ~/.plants/plants.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $PLANTS_CONFIG or ~/.plants/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&plantName, "plant", "p", "", "Plant name (default: $PLANTS_PLANT or \"plant\")")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func setup() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path := configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	if path == "" {
		path = config.DefaultPath()
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg, cfgFile = c, path

	level, _ := config.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if formatFlag != "json" && formatFlag != "text" {
		return fmt.Errorf("invalid format %q (use json or text)", formatFlag)
	}
	return nil
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath
	}
	return config.DefaultDBPath()
}

func getPlant() string {
	if plantName != "" {
		return plantName
	}
	return cfg.Plant
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func newKeeper(s store.Store, name string, rec metrics.Recorder) *plant.Keeper {
	return plant.NewKeeper(s, engine.New(cfg.Thresholds()), plant.Options{
		Plant:    name,
		Logger:   slog.Default(),
		Recorder: rec,
	})
}

func printJSON(w io.Writer, v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func printReport(w io.Writer, rep *plant.Report) {
	if formatFlag != "text" {
		printJSON(w, rep)
		return
	}
	fmt.Fprintln(w, display.Text(rep.View))
	if rep.NextWaterAt != nil && rep.NextWaterAt.After(rep.Now) {
		fmt.Fprintf(w, "Water again %s\n", display.Since(*rep.NextWaterAt, rep.Now))
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
