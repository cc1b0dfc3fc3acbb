package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

type view int

const (
	viewGame view = iota
	viewMenu
	viewScores
)

// SessionModel manages the full session flow: game -> menu -> scores.
// It opens straight onto the saved game, or a new one if nothing was saved.
type SessionModel struct {
	player     Player
	game       *t2048.Game
	config     core.RuntimeConfig
	current    view
	menu       MenuModel
	gameModel  GameModel
	scoreboard ScoreboardModel
	quitting   bool
}

// NewSessionModel starts player's engine and creates the session.
func NewSessionModel(player Player, cfg core.RuntimeConfig) SessionModel {
	game := t2048.New(player.Engine)
	game.Reset(cfg)

	return SessionModel{
		player:    player,
		game:      game,
		config:    cfg,
		current:   viewGame,
		gameModel: NewGameModel(player, game, cfg, false),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.gameModel.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.current {
	case viewMenu:
		return m.updateMenu(msg)
	case viewScores:
		return m.updateScores(msg)
	default:
		return m.updateGame(msg)
	}
}

// updateGame handles updates while the board is shown.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		return m.openMenu()
	}

	return m, cmd
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch m.menu.Choice() {
	case MenuContinue:
		return m.openGame(false)
	case MenuNewGame:
		return m.openGame(true)
	case MenuScores:
		m.scoreboard = NewScoreboardModel(m.player.Scores, m.player.Name, m.player.Logger, m.config.ScreenW, m.config.ScreenH)
		m.current = viewScores
		return m, m.scoreboard.Init()
	case MenuQuit:
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateScores handles updates while the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.openMenu()
	}

	return m, cmd
}

func (m SessionModel) openMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.game.Status(), m.player.Scores != nil, m.config.ScreenW, m.config.ScreenH)
	m.current = viewMenu
	return m, m.menu.Init()
}

func (m SessionModel) openGame(fresh bool) (tea.Model, tea.Cmd) {
	m.gameModel = NewGameModel(m.player, m.game, m.config, fresh)
	m.current = viewGame
	return m, m.gameModel.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case viewMenu:
		return m.menu.View()
	case viewScores:
		return m.scoreboard.View()
	default:
		return m.gameModel.View()
	}
}
