package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved game",
	Long: `Delete the player's saved game. The best score is kept, and the next
't2048 play' starts a new board.

Examples:
  t2048 reset
  t2048 reset --user alice`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func runReset(_ *cobra.Command, _ []string) {
	a, err := newApp(logToStderr)
	if err != nil {
		fail("%v", err)
	}
	defer a.Close()

	if err := a.games.DeleteGame(); err != nil {
		a.Close()
		fail("deleting game: %v", err)
	}
	fmt.Printf("Deleted saved game for %s (best score %d kept)\n", a.user, a.games.LoadBestScore())
}
