package t2048

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned by Validate for snapshots that must not be played.
var ErrInvalidState = errors.New("t2048: invalid game state")

// Phase summarises where a game stands.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhaseWon      Phase = "won"
	PhaseGameOver Phase = "game_over"
)

// GameState is an immutable snapshot of a game. Every engine operation
// returns a new snapshot; the previous one is never edited.
type GameState struct {
	Tiles          Board
	Score          int
	BestScore      int
	GameOver       bool
	HasWon         bool
	ShowWinOverlay bool
}

// Clone returns a deep copy of s.
func (s GameState) Clone() GameState {
	s.Tiles = s.Tiles.Clone()
	return s
}

// Equal reports whether two snapshots hold the same tiles (in order) and flags.
func (s GameState) Equal(o GameState) bool {
	if s.Score != o.Score || s.BestScore != o.BestScore ||
		s.GameOver != o.GameOver || s.HasWon != o.HasWon ||
		s.ShowWinOverlay != o.ShowWinOverlay {
		return false
	}
	if len(s.Tiles) != len(o.Tiles) {
		return false
	}
	for i := range s.Tiles {
		if s.Tiles[i] != o.Tiles[i] {
			return false
		}
	}
	return true
}

// Grid returns the dense board view.
func (s GameState) Grid() Grid {
	return s.Tiles.Grid()
}

// MaxTile returns the highest tile value on the board.
func (s GameState) MaxTile() int {
	return MaxTile(s.Tiles)
}

// Phase returns the game's current phase. A won game that is still playable
// reports PhaseWon only while the win overlay is pending.
func (s GameState) Phase() Phase {
	switch {
	case s.GameOver:
		return PhaseGameOver
	case s.WinVisible():
		return PhaseWon
	default:
		return PhasePlaying
	}
}

// WinVisible reports whether the win banner should be shown.
func (s GameState) WinVisible() bool {
	return s.HasWon && s.ShowWinOverlay && !s.GameOver
}

// Validate checks the structural invariants a playable snapshot must hold:
// positions in range and unique, ids unique and non-negative, values powers
// of two no smaller than 2, scores non-negative.
func (s GameState) Validate() error {
	if s.Score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrInvalidState, s.Score)
	}
	if s.BestScore < 0 {
		return fmt.Errorf("%w: negative best score %d", ErrInvalidState, s.BestScore)
	}
	if len(s.Tiles) > TotalCells {
		return fmt.Errorf("%w: %d tiles on a %d-cell board", ErrInvalidState, len(s.Tiles), TotalCells)
	}

	positions := make(map[int]bool, len(s.Tiles))
	ids := make(map[int]bool, len(s.Tiles))
	for _, t := range s.Tiles {
		if t.Position < 0 || t.Position >= TotalCells {
			return fmt.Errorf("%w: tile %d at position %d", ErrInvalidState, t.ID, t.Position)
		}
		if positions[t.Position] {
			return fmt.Errorf("%w: two tiles at position %d", ErrInvalidState, t.Position)
		}
		positions[t.Position] = true

		if t.ID < 0 {
			return fmt.Errorf("%w: negative tile id %d", ErrInvalidState, t.ID)
		}
		if ids[t.ID] {
			return fmt.Errorf("%w: duplicate tile id %d", ErrInvalidState, t.ID)
		}
		ids[t.ID] = true

		if t.Value < 2 || t.Value&(t.Value-1) != 0 {
			return fmt.Errorf("%w: tile %d has value %d", ErrInvalidState, t.ID, t.Value)
		}
	}
	return nil
}
