package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flapper/internal/core"
	"github.com/vovakirdan/flapper/internal/platform/sound"
	"github.com/vovakirdan/flapper/internal/platform/tui"
	"github.com/vovakirdan/flapper/internal/storage"
)

var (
	flagSound   bool
	flagRecord  bool
	flagLogFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the game in the current terminal.

Controls:
  Space/Up/W   - Flap
  Enter        - Start
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

With --record every finished run is saved to the run journal (--db)
and can be listed with 'flapper runs' and re-simulated with 'flapper replay'.

Examples:
  flapper play
  flapper play --preset easy
  flapper play --seed 42 --record
  flapper play --sound
  flapper play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	playCmd.Flags().BoolVar(&flagRecord, "record", false, "Save finished runs to the run journal")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the game owns the terminal)")
}

func runPlay(_ *cobra.Command, _ []string) {
	gameCfg, err := loadGameConfig()
	if err != nil {
		exitf("%v", err)
	}

	// The alt screen owns stdout and stderr, so logs go to a file or nowhere
	logger := log.New(io.Discard)
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			exitf("opening log file: %v", err)
		}
		defer f.Close()
		logger = newLogger("flapper")
		logger.SetOutput(f)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.Options{
		Game: gameCfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Logger: logger,
	}

	if flagRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			exitf("opening run journal: %v", err)
		}
		defer store.Close()
		opts.Journal = store
	}

	if flagSound {
		player := sound.NewPlayer()
		if err := player.Init(); err != nil {
			logger.Warn("sound disabled", "error", err)
		} else {
			defer player.Close()
			opts.Listener = player
		}
	}

	if err := tui.Run(opts); err != nil {
		exitf("%v", err)
	}
}
