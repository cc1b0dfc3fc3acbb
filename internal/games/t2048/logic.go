package t2048

import "sort"

// Merge records two tiles combining into a new one during a slide.
type Merge struct {
	Sources [2]int // IDs of the consumed tiles
	Result  Tile
}

// Outcome is the result of sliding a board in one direction.
type Outcome struct {
	Tiles  Board
	Gained int  // Score gained from merges
	Moved  bool // Whether any tile moved or merged
	Merges []Merge
	NextID int // Next unused tile id after merges were assigned ids
}

// slotCoord returns the cell of the k-th slot counted from the target edge
// within the given line (a row for Left/Right, a column for Up/Down).
func slotCoord(dir Direction, line, k int) Coord {
	switch dir {
	case DirLeft:
		return Coord{Row: line, Col: k}
	case DirRight:
		return Coord{Row: line, Col: GridSize - 1 - k}
	case DirUp:
		return Coord{Row: k, Col: line}
	default: // DirDown
		return Coord{Row: GridSize - 1 - k, Col: line}
	}
}

// lineOf returns which line a cell belongs to for dir.
func lineOf(dir Direction, c Coord) int {
	if dir == DirLeft || dir == DirRight {
		return c.Row
	}
	return c.Col
}

// distance returns how many slots away from the target edge a cell sits.
func distance(dir Direction, c Coord) int {
	switch dir {
	case DirLeft:
		return c.Col
	case DirRight:
		return GridSize - 1 - c.Col
	case DirUp:
		return c.Row
	default: // DirDown
		return GridSize - 1 - c.Row
	}
}

// slideLine stacks one line of tiles toward the target edge.
// Tiles must be ordered nearest-to-edge first. Each tile merges at most once
// and a merged result is never merged again in the same slide.
func slideLine(dir Direction, line int, tiles []Tile, nextID int) (placed []Tile, merges []Merge, gained int, moved bool, next int) {
	next = nextID
	i := 0
	for i < len(tiles) {
		cur := tiles[i]
		target := slotCoord(dir, line, len(placed)).Position()

		if i+1 < len(tiles) && tiles[i+1].Value == cur.Value {
			merged := Tile{ID: next, Value: cur.Value * 2, Position: target}
			next++
			placed = append(placed, merged)
			merges = append(merges, Merge{Sources: [2]int{cur.ID, tiles[i+1].ID}, Result: merged})
			gained += merged.Value
			moved = true
			i += 2
			continue
		}

		if cur.Position != target {
			moved = true
		}
		cur.Position = target
		placed = append(placed, cur)
		i++
	}
	return placed, merges, gained, moved, next
}

// Slide moves every tile on the board toward dir, merging equal neighbours in
// scan order. Merged tiles receive ids starting at nextID. The input board is
// not modified.
func Slide(board Board, dir Direction, nextID int) Outcome {
	var lines [GridSize][]Tile
	for _, t := range board {
		l := lineOf(dir, t.Coord())
		lines[l] = append(lines[l], t)
	}

	out := Outcome{NextID: nextID}
	for l := range GridSize {
		group := lines[l]
		sort.SliceStable(group, func(a, b int) bool {
			return distance(dir, group[a].Coord()) < distance(dir, group[b].Coord())
		})

		placed, merges, gained, moved, next := slideLine(dir, l, group, out.NextID)
		out.Tiles = append(out.Tiles, placed...)
		out.Merges = append(out.Merges, merges...)
		out.Gained += gained
		out.Moved = out.Moved || moved
		out.NextID = next
	}
	return out
}

// EmptyPositions returns all unoccupied cell positions in ascending order.
func EmptyPositions(board Board) []int {
	var occupied [TotalCells]bool
	for _, t := range board {
		if t.Position >= 0 && t.Position < TotalCells {
			occupied[t.Position] = true
		}
	}
	var empty []int
	for pos, taken := range occupied {
		if !taken {
			empty = append(empty, pos)
		}
	}
	return empty
}

// HasPossibleMerge returns true if any two orthogonally adjacent tiles share
// a value.
func HasPossibleMerge(board Board) bool {
	g := board.Grid()
	for row := range GridSize {
		for col := range GridSize {
			val := g[row][col]
			if val == 0 {
				continue
			}
			// Check right neighbor
			if col < GridSize-1 && g[row][col+1] == val {
				return true
			}
			// Check bottom neighbor
			if row < GridSize-1 && g[row+1][col] == val {
				return true
			}
		}
	}
	return false
}

// IsGameOver returns true when the board is full and no merge remains.
func IsGameOver(board Board) bool {
	if len(board) < TotalCells {
		return false
	}
	return !HasPossibleMerge(board)
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(board Board) int {
	maxVal := 0
	for _, t := range board {
		maxVal = max(maxVal, t.Value)
	}
	return maxVal
}

// HasValue reports whether any tile is at least v.
func HasValue(board Board, v int) bool {
	for _, t := range board {
		if t.Value >= v {
			return true
		}
	}
	return false
}
