package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// MenuChoice is what the player picked in the main menu.
type MenuChoice int

const (
	MenuNone MenuChoice = iota
	MenuContinue
	MenuNewGame
	MenuScores
	MenuQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	status    core.Status
	keyMapper *KeyMapper
	chosen    MenuChoice
}

// NewMenuModel creates a menu for the given game status. Continue is only
// offered while the game is still playable and High Scores only when score
// history is available.
func NewMenuModel(status core.Status, hasScores bool, width, height int) MenuModel {
	var items []MenuItem
	if !status.GameOver {
		items = append(items, MenuItem{Choice: MenuContinue, Title: "Continue"})
	}
	items = append(items, MenuItem{Choice: MenuNewGame, Title: "New Game"})
	if hasScores {
		items = append(items, MenuItem{Choice: MenuScores, Title: "High Scores"})
	}
	items = append(items, MenuItem{Choice: MenuQuit, Title: "Quit"})

	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		status:    status,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.chosen = MenuQuit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		m.chosen = m.items[m.cursor].Choice

	case MenuActionBack:
		// Back returns to the board when there is one to return to
		if !m.status.GameOver {
			m.chosen = MenuContinue
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("2 0 4 8"), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.statusLine(), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Esc: Back  |  Q: Quit"
	b.WriteString(centerStyled(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) statusLine() string {
	switch {
	case m.status.GameOver:
		return fmt.Sprintf("Game over with %d  |  Best: %d", m.status.Score, m.status.BestScore)
	case m.status.Score > 0:
		return fmt.Sprintf("Current: %d  |  Best: %d", m.status.Score, m.status.BestScore)
	default:
		return fmt.Sprintf("Best: %d", m.status.BestScore)
	}
}

// Choice returns the selected entry, MenuNone while the player is choosing.
func (m MenuModel) Choice() MenuChoice {
	return m.chosen
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// centerStyled centers text that may carry ANSI styling.
func centerStyled(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
