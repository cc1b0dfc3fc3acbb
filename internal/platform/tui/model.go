package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Player bundles everything one player's session runs on.
type Player struct {
	Name   string         // Owner recorded with each score
	Engine *t2048.Engine  // Must not be shared between concurrent sessions
	Scores *storage.Store // nil disables score history
	Logger *log.Logger

	// ScreenshotDir receives ctrl+s screen dumps; empty disables them.
	ScreenshotDir string
}

func (p Player) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard)
	}
	return p.Logger
}

// GameModel runs the 2048 board inside a session. Every key press is
// applied immediately; there is no tick loop.
type GameModel struct {
	player     Player
	game       *t2048.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	fresh      bool // Start a new game on Init
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game model on an already started game. With fresh
// set, Init abandons the current game and deals a new board.
func NewGameModel(player Player, game *t2048.Game, cfg core.RuntimeConfig, fresh bool) GameModel {
	return GameModel{
		player:    player,
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
		fresh:     fresh,
	}
}

// Init sizes the game for the screen and deals a new board if requested.
func (m GameModel) Init() tea.Cmd {
	m.game.Resize(m.config.ScreenW, m.config.ScreenH)
	if m.fresh {
		m.apply(core.FrameOf(core.ActionRestart))
	}
	return nil
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.game.Resize(msg.Width, msg.Height)
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	frame := core.NewInputFrame()
	if m.keyMapper.MapKeyToFrame(msg, &frame) {
		m.game.Save()
		m.quitting = true
		return m, tea.Quit
	}

	if frame.Has(core.ActionBack) {
		m.game.Save()
		m.backToMenu = true
		return m, nil
	}

	m.apply(frame)
	return m, nil
}

// apply steps the game and records a game that ended on this step.
func (m GameModel) apply(frame core.InputFrame) {
	result := m.game.Step(frame)
	if result.Finished {
		recordScore(m.player, result.Final)
	}
}

// recordScore adds a finished game to the score history. Empty games are
// not worth a row.
func recordScore(p Player, final core.Status) {
	if p.Scores == nil || final.Score == 0 {
		return
	}
	if _, err := p.Scores.SaveScore(p.Name, final.Score, final.MaxTile, final.Won); err != nil {
		p.logger().Warn("cannot record score", "score", final.Score, "err", err)
		return
	}
	p.logger().Info("game finished", "score", final.Score, "max_tile", final.MaxTile, "won", final.Won)
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	if m.player.ScreenshotDir == "" {
		return
	}

	m.game.Render(m.screen)

	if err := os.MkdirAll(m.player.ScreenshotDir, 0o755); err != nil {
		m.player.logger().Warn("cannot create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.player.ScreenshotDir, fmt.Sprintf("t2048_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.player.logger().Warn("cannot save screenshot", "err", err)
		return
	}
	m.player.logger().Debug("screenshot saved", "path", path)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a local Bubble Tea session for player.
func Run(player Player, cfg core.RuntimeConfig) error {
	model := NewSessionModel(player, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
