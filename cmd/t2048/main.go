// t2048 plays 2048 in the terminal, locally or over SSH.
//
// Usage:
//
//	t2048 play        - Play (resumes the saved game)
//	t2048 serve       - Start SSH server for remote play
//	t2048 scores      - Show score history
//	t2048 show        - Print the saved game
//	t2048 reset       - Delete the saved game, keeping the best score
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.t2048/config.yaml)
//	--data-dir <dir>    - Where saves, scores and logs live
//	--backend <name>    - Storage backend: sqlite or file
//	--seed <value>      - RNG seed for reproducible gameplay
//	--log-level <lvl>   - debug, info, warn or error
//	--user <name>       - Player name for saves and scores
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDataDir  string
	flagBackend  string
	flagSeed     int64
	flagLogLevel string
	flagUser     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is the sliding tile game 2048 for the terminal.

Slide the board with the arrow keys; equal tiles merge and add their value
to your score. Reach 2048 to win, then keep going if you like. Your game is
saved after every move and resumed the next time you play.

Available commands:
  play     - Play locally
  serve    - Start SSH server for remote play
  scores   - View score history
  show     - Print the saved game
  reset    - Throw away the saved game

Examples:
  t2048 play
  t2048 play --seed 42 --backend file
  t2048 serve
  t2048 scores --all`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default from config: ~/.t2048)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite or file")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Player name (default: $USER)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resetCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
