package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/config"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the game configuration as YAML after applying the config search
order (--config, ~/.flapper/configs/flappy.yaml, ./configs/flappy.yaml,
embedded defaults) and --preset.

Save the output as ~/.flapper/configs/flappy.yaml to customize the game.

Examples:
  flapper config
  flapper config --preset hard
  flapper config --defaults > flappy.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the embedded defaults")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagConfigDefaults {
		fmt.Print(string(config.DefaultYAML()))
		return
	}

	cfg, err := loadGameConfig()
	if err != nil {
		exitf("%v", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		exitf("%v", err)
	}
	fmt.Print(string(data))
}
