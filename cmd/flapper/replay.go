package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/replay"
	"github.com/vovakirdan/flapper/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a recorded run",
	Long: `Load a run from the journal and play it back headlessly with the
seed, config, frame timestamps and flaps it was recorded with.

Prints the final score and how the run ended.

Examples:
  flapper replay 6c1a0d8e-3f7b-4c1e-9d55-0c7e6b2a9f10`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening run journal: %v", err)
	}
	defer store.Close()

	rec, err := store.Run(args[0])
	if err != nil {
		exitf("%v", err)
	}

	snap, err := replay.Play(rec)
	if err != nil {
		exitf("%v", err)
	}

	fmt.Printf("Run %s\n", rec.ID)
	fmt.Printf("  seed:   %d\n", rec.Seed)
	fmt.Printf("  frames: %d\n", len(rec.Frames))
	fmt.Printf("  flaps:  %d\n", len(rec.Jumps))
	fmt.Printf("  state:  %s\n", snap.Lifecycle)
	fmt.Printf("  cause:  %s\n", snap.Cause)
	fmt.Printf("  score:  %d\n", snap.Score)
}
