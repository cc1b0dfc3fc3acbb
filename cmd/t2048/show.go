package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagShowJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved game",
	Long: `Print the player's saved game without starting it.

Examples:
  t2048 show
  t2048 show --json
  t2048 show --user alice --backend file`,
	Args: cobra.NoArgs,
	Run:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&flagShowJSON, "json", false, "Print the saved record as JSON")
}

func runShow(_ *cobra.Command, _ []string) {
	a, err := newApp(logToStderr)
	if err != nil {
		fail("%v", err)
	}
	defer a.Close()

	state, ok := a.games.LoadGame()
	if !ok {
		fmt.Printf("No saved game for %s. Best score: %d\n", a.user, a.games.LoadBestScore())
		return
	}

	if flagShowJSON {
		data, err := storage.MarshalGame(state)
		if err != nil {
			a.Close()
			fail("encoding game: %v", err)
		}
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			a.Close()
			fail("encoding game: %v", err)
		}
		fmt.Println(out.String())
		return
	}

	fmt.Printf("Saved game - %s\n", a.user)
	fmt.Println()
	fmt.Println(state.Grid().String())
	fmt.Println()
	fmt.Printf("Score: %d  Best: %d  Max tile: %d  (%s)\n", state.Score, state.BestScore, state.MaxTile(), state.Phase())
}
