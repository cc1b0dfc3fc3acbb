package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// recordVersion is written into every record. Records without a version
// predate it and decode as version 1.
const recordVersion = 1

// ErrCorruptRecord is returned when a stored record cannot be decoded.
var ErrCorruptRecord = errors.New("storage: corrupt record")

// Pointer fields tell a missing key apart from a zero value.
type tileRecord struct {
	ID       *int `json:"id"`
	Value    *int `json:"value"`
	Position *int `json:"position"`
}

type gameRecord struct {
	Version        *int          `json:"version,omitempty"`
	Score          *int          `json:"score"`
	BestScore      *int          `json:"bestScore,omitempty"`
	GameOver       *bool         `json:"gameOver"`
	HasWon         *bool         `json:"hasWon"`
	ShowWinOverlay *bool         `json:"showWinOverlay,omitempty"`
	Tiles          *[]tileRecord `json:"tiles"`
}

type bestRecord struct {
	Version   *int `json:"version,omitempty"`
	BestScore *int `json:"bestScore"`
}

func ptr[T any](v T) *T {
	return &v
}

func encodeGame(s t2048.GameState) ([]byte, error) {
	tiles := make([]tileRecord, 0, len(s.Tiles))
	for _, t := range s.Tiles {
		tiles = append(tiles, tileRecord{
			ID:       ptr(t.ID),
			Value:    ptr(t.Value),
			Position: ptr(t.Position),
		})
	}
	return json.Marshal(gameRecord{
		Version:        ptr(recordVersion),
		Score:          ptr(s.Score),
		BestScore:      ptr(s.BestScore),
		GameOver:       ptr(s.GameOver),
		HasWon:         ptr(s.HasWon),
		ShowWinOverlay: ptr(s.ShowWinOverlay),
		Tiles:          &tiles,
	})
}

// decodeGame parses a game record. A missing bestScore falls back to
// fallbackBest and a missing showWinOverlay defaults to true; any other
// missing field makes the record corrupt.
func decodeGame(data []byte, fallbackBest func() int) (t2048.GameState, error) {
	var rec gameRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return t2048.GameState{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if err := checkVersion(rec.Version); err != nil {
		return t2048.GameState{}, err
	}

	switch {
	case rec.Score == nil:
		return t2048.GameState{}, missing("score")
	case rec.GameOver == nil:
		return t2048.GameState{}, missing("gameOver")
	case rec.HasWon == nil:
		return t2048.GameState{}, missing("hasWon")
	case rec.Tiles == nil:
		return t2048.GameState{}, missing("tiles")
	}

	state := t2048.GameState{
		Score:          *rec.Score,
		GameOver:       *rec.GameOver,
		HasWon:         *rec.HasWon,
		ShowWinOverlay: true,
	}
	if rec.ShowWinOverlay != nil {
		state.ShowWinOverlay = *rec.ShowWinOverlay
	}
	if rec.BestScore != nil {
		state.BestScore = *rec.BestScore
	} else {
		state.BestScore = fallbackBest()
	}

	for i, tr := range *rec.Tiles {
		if tr.ID == nil || tr.Value == nil || tr.Position == nil {
			return t2048.GameState{}, fmt.Errorf("%w: tile %d is incomplete", ErrCorruptRecord, i)
		}
		state.Tiles = append(state.Tiles, t2048.Tile{
			ID:       *tr.ID,
			Value:    *tr.Value,
			Position: *tr.Position,
		})
	}
	return state, nil
}

func encodeBest(best int) ([]byte, error) {
	return json.Marshal(bestRecord{Version: ptr(recordVersion), BestScore: ptr(best)})
}

func decodeBest(data []byte) (int, error) {
	var rec bestRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if err := checkVersion(rec.Version); err != nil {
		return 0, err
	}
	if rec.BestScore == nil {
		return 0, missing("bestScore")
	}
	if *rec.BestScore < 0 {
		return 0, fmt.Errorf("%w: negative best score %d", ErrCorruptRecord, *rec.BestScore)
	}
	return *rec.BestScore, nil
}

func checkVersion(v *int) error {
	if v != nil && *v != recordVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptRecord, *v)
	}
	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing %q", ErrCorruptRecord, field)
}

// MarshalGame renders s in the saved game record format.
func MarshalGame(s t2048.GameState) ([]byte, error) {
	return encodeGame(s)
}
