package t2048

import (
	"github.com/vovakirdan/tui-2048/internal/core"
)

// Game adapts an Engine to the terminal platform: it turns input frames into
// engine requests and draws the current state onto a screen buffer.
type Game struct {
	engine *Engine

	// Screen dimensions
	screenW  int
	screenH  int
	tooSmall bool
}

// New creates a game driven by the given engine.
func New(engine *Engine) *Game {
	return &Game{engine: engine}
}

// Engine returns the underlying engine.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Reset sizes the game for the screen and restores or starts a game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.Resize(cfg.ScreenW, cfg.ScreenH)
	g.engine.Start()
}

// Resize updates the screen dimensions without touching the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}

// Step applies one input frame. Directions move the board, Continue
// dismisses the win banner and Restart abandons the current game.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	prev := g.engine.State()

	if g.tooSmall {
		return core.StepResult{Status: g.Status()}
	}

	if in.Has(core.ActionRestart) {
		g.engine.NewGame()
		return core.StepResult{
			Status:   g.Status(),
			Changed:  true,
			Finished: !prev.GameOver && prev.Score > 0,
			Final:    statusOf(prev),
		}
	}

	if in.Has(core.ActionContinue) {
		if !prev.WinVisible() {
			return core.StepResult{Status: g.Status()}
		}
		g.engine.ContinueGame()
		return core.StepResult{Status: g.Status(), Changed: true}
	}

	// Process move input
	var dir Direction
	switch {
	case in.Has(core.ActionUp):
		dir = DirUp
	case in.Has(core.ActionDown):
		dir = DirDown
	case in.Has(core.ActionLeft):
		dir = DirLeft
	case in.Has(core.ActionRight):
		dir = DirRight
	default:
		return core.StepResult{Status: g.Status()}
	}

	cur, moved := g.engine.Move(dir)
	status := statusOf(cur)
	return core.StepResult{
		Status:   status,
		Changed:  moved,
		Finished: moved && cur.GameOver,
		Final:    status,
	}
}

// Save flushes the current game to the store.
func (g *Game) Save() {
	g.engine.SaveGame()
}

// Status returns the platform-level summary of the current state.
func (g *Game) Status() core.Status {
	return statusOf(g.engine.State())
}

func statusOf(s GameState) core.Status {
	return core.Status{
		Score:     s.Score,
		BestScore: s.BestScore,
		MaxTile:   s.MaxTile(),
		GameOver:  s.GameOver,
		Won:       s.HasWon,
	}
}
