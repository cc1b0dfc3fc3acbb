package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagScoresAll   bool
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show score history",
	Long: `Display the best finished games. A game counts once it ends or is
abandoned for a new one with a score above zero.

Score history needs the sqlite backend.

Examples:
  t2048 scores
  t2048 scores --all --limit 20
  t2048 scores --user alice --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show every player's scores")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the player's score history")
}

func runScores(_ *cobra.Command, _ []string) {
	a, err := newApp(logToStderr)
	if err != nil {
		fail("%v", err)
	}
	defer a.Close()

	if a.scores == nil {
		a.Close()
		fail("score history needs the sqlite backend (current: %s)", a.cfg.Storage.Backend)
	}

	if flagScoresClear {
		if err := a.scores.ClearScores(a.user); err != nil {
			a.Close()
			fail("clearing scores: %v", err)
		}
		fmt.Printf("Cleared scores for %s\n", a.user)
		return
	}

	owner, title := a.user, a.user
	if flagScoresAll {
		owner, title = "", "everyone"
	}

	scores, err := a.scores.TopScores(owner, flagScoresLimit)
	if err != nil {
		a.Close()
		fail("retrieving scores: %v", err)
	}

	// Display scores
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %s\n", "Rank", "Player", "Score", "Tile", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %s\n", "----", "------", "-----", "----", "----")

	for i, entry := range scores {
		tile := fmt.Sprintf("%d", entry.MaxTile)
		if entry.Won {
			tile += "*"
		}
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-12s  %-8d  %-6s  %s\n", i+1, entry.Owner, entry.Score, tile, dateStr)
	}

	stats, err := a.scores.Stats(owner)
	if err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Best: %d  Avg: %.0f  Best tile: %d  Wins: %d\n",
			stats.GamesCount, stats.HighScore, stats.AvgScore, stats.BestTile, stats.Wins)
	}
}
