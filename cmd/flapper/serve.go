package main

import (
	"context"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/platform/tui"
	"github.com/vovakirdan/flapper/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagNoJournal   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session. Finished runs are saved to the
run journal (--db) unless --no-journal is given.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.flapper/host_key

Examples:
  flapper serve                           # Listen on :23234 with auto-generated key
  flapper serve --ssh :2222               # Listen on port 2222
  flapper serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagNoJournal, "no-journal", false, "Do not record runs")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger("flapper-ssh")

	gameCfg, err := loadGameConfig()
	if err != nil {
		exitf("%v", err)
	}

	var journal *storage.Store
	if !flagNoJournal {
		journal, err = storage.Open(flagDBPath)
		if err != nil {
			// Continue without the journal
			logger.Warn("could not open run journal", "error", err)
		} else {
			defer journal.Close()
		}
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Game:        gameCfg,
	}

	server, err := tui.NewSSHServer(cfg, journal, logger)
	if err != nil {
		exitf("creating server: %v", err)
	}

	logger.Info("press Ctrl+C to stop", "connect", "ssh localhost -p "+portOf(cfg.Address))
	if err := server.ListenAndServe(context.Background()); err != nil {
		exitf("server error: %v", err)
	}
}

// portOf returns the port of a host:port address, or the address itself.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
