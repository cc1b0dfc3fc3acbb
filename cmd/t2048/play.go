package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048",
	Long: `Start a local game. The saved game is resumed if there is one.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  C                - Keep going after reaching 2048
  N/R              - New game
  B/Esc            - Menu (high scores, new game)
  Ctrl+S           - Save a screenshot to the data directory
  Q/Ctrl+C         - Quit (the game is saved)

Examples:
  t2048 play
  t2048 play --user alice
  t2048 play --backend file --data-dir ./saves`,
	Run: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	a, err := newApp(logToFile)
	if err != nil {
		fail("%v", err)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	player := tui.Player{
		Name:          a.user,
		Engine:        a.newEngine(),
		Scores:        a.scores,
		Logger:        a.logger.With("user", a.user),
		ScreenshotDir: filepath.Join(a.cfg.DataDir, "screenshots"),
	}

	runErr := tui.Run(player, core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	})

	// Close store before potential exit
	a.Close()

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
