// Package storage persists 2048 games and score history.
//
// Saved games live in named slots behind a SlotBackend: one JSON file per
// slot for a local player, or rows in SQLite when many players share a
// server. Score history is kept in SQLite only. The pure-Go
// modernc.org/sqlite driver avoids CGO dependencies.
package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// Slot names used by GameStore.
const (
	GameSlot = "game_state"
	BestSlot = "best_score"
)

// ErrSlotNotFound is returned when a slot has never been written or was deleted.
var ErrSlotNotFound = errors.New("storage: slot not found")

// SlotBackend stores opaque records under short names.
type SlotBackend interface {
	ReadSlot(name string) ([]byte, error)
	WriteSlot(name string, data []byte) error
	DeleteSlot(name string) error
}

// GameStore implements t2048.Store on top of a SlotBackend. Read failures
// and corrupt records are logged and reported as absent.
type GameStore struct {
	slots  SlotBackend
	logger *log.Logger
}

var _ t2048.Store = (*GameStore)(nil)

// NewGameStore wraps a slot backend. A nil logger discards output.
func NewGameStore(slots SlotBackend, logger *log.Logger) *GameStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GameStore{slots: slots, logger: logger}
}

// SaveGame writes the game record and raises the best-score record if the
// state beats it.
func (s *GameStore) SaveGame(state t2048.GameState) error {
	data, err := encodeGame(state)
	if err != nil {
		return fmt.Errorf("storage: cannot encode game: %w", err)
	}
	if err := s.slots.WriteSlot(GameSlot, data); err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}

	best := max(state.BestScore, state.Score)
	if best <= s.LoadBestScore() {
		return nil
	}
	data, err = encodeBest(best)
	if err != nil {
		return fmt.Errorf("storage: cannot encode best score: %w", err)
	}
	if err := s.slots.WriteSlot(BestSlot, data); err != nil {
		return fmt.Errorf("storage: cannot save best score: %w", err)
	}
	return nil
}

// LoadGame returns the saved game, or false when there is none or it
// cannot be decoded.
func (s *GameStore) LoadGame() (t2048.GameState, bool) {
	data, err := s.slots.ReadSlot(GameSlot)
	if errors.Is(err, ErrSlotNotFound) {
		return t2048.GameState{}, false
	}
	if err != nil {
		s.logger.Warn("cannot read saved game", "err", err)
		return t2048.GameState{}, false
	}

	state, err := decodeGame(data, s.LoadBestScore)
	if err != nil {
		s.logger.Warn("discarding corrupt saved game", "err", err)
		return t2048.GameState{}, false
	}
	return state, true
}

// LoadBestScore returns the stored best score, 0 when absent or unreadable.
func (s *GameStore) LoadBestScore() int {
	data, err := s.slots.ReadSlot(BestSlot)
	if errors.Is(err, ErrSlotNotFound) {
		return 0
	}
	if err != nil {
		s.logger.Warn("cannot read best score", "err", err)
		return 0
	}

	best, err := decodeBest(data)
	if err != nil {
		s.logger.Warn("discarding corrupt best score", "err", err)
		return 0
	}
	return best
}

// DeleteGame removes the saved game. The best score is kept.
func (s *GameStore) DeleteGame() error {
	err := s.slots.DeleteSlot(GameSlot)
	if err != nil && !errors.Is(err, ErrSlotNotFound) {
		return fmt.Errorf("storage: cannot delete game: %w", err)
	}
	return nil
}
