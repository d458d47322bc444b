package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/replay"
	"github.com/vovakirdan/flapper/internal/storage"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `Display the most recent runs in the run journal, newest first.

Scores are not stored; they are recomputed by re-simulating each recording.

Examples:
  flapper runs
  flapper runs --limit 50
  flapper runs delete <id>`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	Run:   runRunsDelete,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
	runsCmd.AddCommand(runsDeleteCmd)
}

func runRuns(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening run journal: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		exitf("listing runs: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flapper play --record' to record one!")
		return
	}

	fmt.Printf("  %-36s  %-5s  %-6s  %-5s  %-9s  %s\n", "ID", "Score", "Ticks", "Jumps", "Cause", "Date")
	fmt.Printf("  %-36s  %-5s  %-6s  %-5s  %-9s  %s\n", "--", "-----", "-----", "-----", "-----", "----")

	for _, e := range runs {
		score := "?"
		if rec, err := store.Run(e.ID); err == nil {
			if snap, err := replay.Play(rec); err == nil {
				score = fmt.Sprint(snap.Score)
			}
		}
		fmt.Printf("  %-36s  %-5s  %-6d  %-5d  %-9s  %s\n",
			e.ID, score, e.Ticks, e.Jumps, e.Cause, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func runRunsDelete(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening run journal: %v", err)
	}
	defer store.Close()

	if err := store.DeleteRun(args[0]); err != nil {
		exitf("%v", err)
	}
	fmt.Printf("Deleted run %s\n", args[0])
}
