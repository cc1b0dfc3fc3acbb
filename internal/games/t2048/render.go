package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including borders)
	cellHeight = 2 // Height of each cell (including borders)
	hudHeight  = 3

	boardW = GridSize*cellWidth + 1  // +1 for right border
	boardH = GridSize*cellHeight + 1 // +1 for bottom border

	// Minimum size: board + HUD + controls line
	minScreenW = boardW + 2
	minScreenH = hudHeight + 1 + boardH + 2
)

// tileColor returns the colour for a tile value.
func tileColor(value int) core.Color {
	switch value {
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorBrightWhite
	case 8:
		return core.ColorOrange
	case 16:
		return core.ColorBrightRed
	case 32:
		return core.ColorRed
	case 64:
		return core.ColorBrightMagenta
	case 128:
		return core.ColorYellow
	case 256:
		return core.ColorBrightYellow
	case 512:
		return core.ColorGreen
	case 1024:
		return core.ColorBrightGreen
	case 2048:
		return core.ColorBrightCyan
	default:
		return core.ColorBrightBlue
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	state := g.engine.State()

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, state, boardX)
	g.renderBoard(dst, state, boardX, boardY)

	dst.DrawTextCentered(boardY+boardH+1, g.Controls())

	g.renderOverlays(dst, state, core.NewRect(boardX, boardY, boardW, boardH))
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the title, score and best score.
func (g *Game) renderHUD(dst *core.Screen, state GameState, boardX int) {
	title := "2 0 4 8"
	dst.DrawTextColored(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	scoreStr := fmt.Sprintf("Score: %d", state.Score)
	dst.DrawText(boardX, 1, scoreStr)

	bestStr := fmt.Sprintf("Best: %d", state.BestScore)
	dst.DrawText(max(boardX, boardX+boardW-len(bestStr)), 1, bestStr)

	if last := g.engine.LastMove(); last.Gained > 0 {
		gained := fmt.Sprintf("+%d", last.Gained)
		dst.DrawTextColored(boardX+(boardW-len(gained))/2, 2, gained, core.ColorGreen)
	}
}

// renderBoard draws the 4x4 grid with tiles.
func (g *Game) renderBoard(dst *core.Screen, state GameState, boardX, boardY int) {
	// Draw grid borders
	for y := range GridSize + 1 {
		for x := range GridSize + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == GridSize:
				corner = '┐'
			case y == GridSize && x == 0:
				corner = '└'
			case y == GridSize && x == GridSize:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == GridSize:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == GridSize:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColored(px, py, corner, core.ColorGray)

			if x < GridSize {
				for i := 1; i < cellWidth; i++ {
					dst.SetColored(px+i, py, '─', core.ColorGray)
				}
			}
			if y < GridSize {
				for i := 1; i < cellHeight; i++ {
					dst.SetColored(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}

	merged := make(map[int]bool)
	for _, m := range g.engine.LastMove().Merges {
		merged[m.Result.ID] = true
	}

	// Draw tiles
	for _, t := range state.Tiles {
		c := t.Coord()
		cellX := boardX + c.Col*cellWidth + 1
		cellY := boardY + c.Row*cellHeight + 1

		valStr := strconv.Itoa(t.Value)
		padLeft := max((cellWidth-1-len(valStr))/2, 0)
		dst.DrawTextColored(cellX+padLeft, cellY, valStr, tileColor(t.Value))

		if merged[t.ID] {
			dst.SetColored(cellX, cellY, '+', core.ColorGreen)
		}
	}
}

// renderOverlays draws the win banner and the game over box.
func (g *Game) renderOverlays(dst *core.Screen, state GameState, board core.Rect) {
	cx, cy := board.Center()

	switch {
	case state.GameOver:
		maxStr := fmt.Sprintf("Max tile: %d", state.MaxTile())
		g.drawOverlay(dst, cx, cy, "GAME OVER", maxStr, "N: new game  B: menu")
	case state.WinVisible():
		g.drawOverlay(dst, cx, cy, "YOU WIN!", "C: keep going", "N: new game")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.CenteredRect(centerX, centerY, maxLen+4, len(lines)+2)

	// Clear area behind overlay
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		x := centerX - len(line)/2
		dst.DrawTextColored(x, box.Y+1+i, line, core.ColorBrightWhite)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | N: New | B: Menu | Q: Quit"
}
