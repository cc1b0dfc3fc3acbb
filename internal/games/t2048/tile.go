// Package t2048 implements the 2048 puzzle: the board engine that slides and
// merges tiles, spawns new ones and detects terminal states, plus the adapter
// that drives it from the terminal platform.
package t2048

import (
	"fmt"
	"strings"
)

// GridSize is the board dimension.
const GridSize = 4

// TotalCells is the number of cells on the board.
const TotalCells = GridSize * GridSize

// WinValue is the tile value that wins the game.
const WinValue = 2048

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every direction in a stable order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection converts a name like "left" or "L" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return 0, fmt.Errorf("t2048: unknown direction %q", s)
}

// Coord is a cell address in row/column form.
type Coord struct {
	Row int
	Col int
}

// CoordOf converts a flat cell position to its coordinate.
func CoordOf(position int) Coord {
	return Coord{Row: position / GridSize, Col: position % GridSize}
}

// Position returns the flat cell index for c.
func (c Coord) Position() int {
	return c.Row*GridSize + c.Col
}

// InBounds reports whether c lies on the board.
func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < GridSize && c.Col >= 0 && c.Col < GridSize
}

// Tile is a single numbered piece on the board.
// A merge never mutates its sources; it produces a tile with a fresh ID.
type Tile struct {
	ID       int
	Value    int
	Position int
}

// Coord returns the tile's cell coordinate.
func (t Tile) Coord() Coord {
	return CoordOf(t.Position)
}

// Board is the ordered collection of live tiles.
type Board []Tile

// Grid is a dense view of a board; 0 marks an empty cell.
type Grid [GridSize][GridSize]int

// Clone returns a copy that shares no memory with b.
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	copy(out, b)
	return out
}

// Grid renders the board into its dense form.
func (b Board) Grid() Grid {
	var g Grid
	for _, t := range b {
		c := t.Coord()
		if c.InBounds() {
			g[c.Row][c.Col] = t.Value
		}
	}
	return g
}

// At returns the tile occupying position, if any.
func (b Board) At(position int) (Tile, bool) {
	for _, t := range b {
		if t.Position == position {
			return t, true
		}
	}
	return Tile{}, false
}

// MaxID returns the highest tile id, or -1 for an empty board.
func (b Board) MaxID() int {
	maxID := -1
	for _, t := range b {
		maxID = max(maxID, t.ID)
	}
	return maxID
}

// BoardFromGrid builds a board from a dense grid, assigning ids row-major
// starting at 0.
func BoardFromGrid(g Grid) Board {
	var b Board
	id := 0
	for row := range GridSize {
		for col := range GridSize {
			if g[row][col] == 0 {
				continue
			}
			b = append(b, Tile{ID: id, Value: g[row][col], Position: Coord{row, col}.Position()})
			id++
		}
	}
	return b
}

// String draws the grid as four space-separated rows, "." for empty cells.
func (g Grid) String() string {
	var sb strings.Builder
	for row := range GridSize {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range GridSize {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if g[row][col] == 0 {
				sb.WriteString(fmt.Sprintf("%5s", "."))
				continue
			}
			sb.WriteString(fmt.Sprintf("%5d", g[row][col]))
		}
	}
	return sb.String()
}
