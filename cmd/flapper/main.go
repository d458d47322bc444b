// flapper is a side-scrolling flap-through-the-gaps game for the terminal,
// SSH and the browser.
//
// Usage:
//
//	flapper play             - Play in this terminal
//	flapper serve            - Start SSH server for remote play
//	flapper web              - Serve the browser version
//	flapper runs             - List recorded runs
//	flapper replay <id>      - Re-simulate a recorded run
//	flapper config           - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--config <path>       - Custom game config YAML
//	--preset <name>       - easy, normal or hard
//	--db <path>           - Run journal path (default: ~/.flapper/runs.db)
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/config"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagConfig   string
	flagPreset   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flapper",
	Short: "Flapper - flap through the gaps in your terminal or browser",
	Long: `Flapper is a one-button side-scroller: flap to stay airborne and
pass through the gaps between obstacles. Every gap passed scores a point;
touching an obstacle or leaving the playfield ends the run.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  web      - Serve the browser version
  runs     - List recorded runs
  replay   - Re-simulate a recorded run
  config   - Print the effective configuration

Examples:
  flapper play
  flapper play --preset hard --record
  flapper serve --ssh :2222
  flapper web --addr :8080
  flapper replay 1f0c...`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Tuning preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flapper/runs.db", "Path to run journal database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger returns a stderr logger at the --log-level level.
func newLogger(prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// loadGameConfig loads the config file and applies --preset.
func loadGameConfig() (config.FlappyConfig, error) {
	cfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagPreset != "" {
		preset := config.ParsePreset(flagPreset)
		if preset == "" {
			return cfg, fmt.Errorf("unknown preset %q (expected easy, normal or hard)", flagPreset)
		}
		config.ApplyFlappyPreset(&cfg, preset)
	}
	return cfg, cfg.Validate()
}

// exitf prints an error and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
