package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/platform/web"
	"github.com/vovakirdan/flapper/internal/storage"
)

var (
	flagWebAddr      string
	flagWebNoJournal bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the browser version",
	Long: `Start an HTTP server with the browser version of the game.

The simulation runs on the server; the page draws snapshots on a canvas
and sends flaps over a websocket. Space, click or tap flaps.

Examples:
  flapper web                 # Listen on :8080
  flapper web --addr :9000
  flapper web --preset hard`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().BoolVar(&flagWebNoJournal, "no-journal", false, "Do not record runs")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger := newLogger("flapper-web")

	gameCfg, err := loadGameConfig()
	if err != nil {
		exitf("%v", err)
	}

	var journal *storage.Store
	if !flagWebNoJournal {
		journal, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open run journal", "error", err)
		} else {
			defer journal.Close()
		}
	}

	server := web.NewServer(web.Config{
		Address:  flagWebAddr,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Game:     gameCfg,
	}, journal, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("open the game in a browser", "url", "http://localhost:"+portOf(flagWebAddr))
	if err := server.ListenAndServe(ctx); err != nil {
		exitf("server error: %v", err)
	}
}
