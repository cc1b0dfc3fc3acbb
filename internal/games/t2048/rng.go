package t2048

import (
	"math/rand"
	"time"
)

// spawn4Prob is the chance a spawned tile is a 4 instead of a 2.
const spawn4Prob = 0.10

// Rand is the randomness the engine needs. *rand.Rand satisfies it; tests
// inject scripted sources.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source. A zero seed uses the current time.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// spawnTile adds one tile to a random empty cell and returns the new board
// and the next unused id. A full board is returned unchanged.
func spawnTile(board Board, rng Rand, nextID int) (Board, int, bool) {
	empty := EmptyPositions(board)
	if len(empty) == 0 {
		return board, nextID, false
	}

	pos := empty[rng.Intn(len(empty))]

	// 90% 2, 10% 4
	value := 2
	if rng.Float64() < spawn4Prob {
		value = 4
	}

	return append(board[:len(board):len(board)], Tile{ID: nextID, Value: value, Position: pos}), nextID + 1, true
}
