package t2048

import (
	"io"

	"github.com/charmbracelet/log"
)

// Store is the persistence the engine relies on. Implementations absorb
// their own read errors: a missing or corrupt record loads as absent.
type Store interface {
	SaveGame(state GameState) error
	LoadGame() (GameState, bool)
	LoadBestScore() int
	DeleteGame() error
}

// Engine owns the current game for one player. It is not safe for
// concurrent use; callers serialize requests.
//
// The tile id counter resets to 0 on NewGame and resumes at max(id)+1 when a
// saved game is loaded. The cached best score only ever grows.
type Engine struct {
	rng    Rand
	store  Store
	logger *log.Logger

	state     GameState
	nextID    int
	bestScore int
	started   bool
	lastMove  MoveReport

	listeners  map[int]func(GameState)
	listenerID int
}

// MoveReport describes the last effective move.
type MoveReport struct {
	Direction Direction
	Gained    int
	Merges    []Merge
	Spawned   Tile
	HasSpawn  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for spawning tiles.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithStore sets the persistence backend.
func WithStore(s Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger sets the logger for persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine. Call Start before playing.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		listeners: make(map[int]func(GameState)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(0)
	}
	if e.store == nil {
		e.store = nopStore{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Start restores the saved game, or begins a new one when nothing usable
// was saved.
func (e *Engine) Start() GameState {
	e.started = true
	e.bestScore = max(e.bestScore, e.store.LoadBestScore())

	saved, ok := e.store.LoadGame()
	if !ok {
		return e.NewGame()
	}
	if err := saved.Validate(); err != nil {
		e.logger.Warn("discarding saved game", "err", err)
		return e.NewGame()
	}

	e.nextID = saved.Tiles.MaxID() + 1
	e.lastMove = MoveReport{}
	e.bestScore = max(e.bestScore, saved.BestScore, saved.Score)
	saved.BestScore = e.bestScore
	e.logger.Debug("restored game", "score", saved.Score, "tiles", len(saved.Tiles))
	e.replace(saved.Clone())
	return e.State()
}

// NewGame discards the current game and seeds a fresh board with two tiles.
func (e *Engine) NewGame() GameState {
	e.started = true
	e.nextID = 0
	e.lastMove = MoveReport{}

	var tiles Board
	for range 2 {
		tiles, e.nextID, _ = spawnTile(tiles, e.rng, e.nextID)
	}

	e.replace(GameState{
		Tiles:          tiles,
		BestScore:      e.bestScore,
		ShowWinOverlay: true,
	})
	e.persist()
	return e.State()
}

// Move slides the board toward dir. It reports whether the move was
// effective; an ineffective move returns the current state untouched and
// writes nothing.
func (e *Engine) Move(dir Direction) (GameState, bool) {
	prev := e.state
	if prev.GameOver {
		return e.State(), false
	}

	out := Slide(prev.Tiles, dir, e.nextID)
	if !out.Moved {
		return e.State(), false
	}

	tiles, next, spawned := spawnTile(out.Tiles, e.rng, out.NextID)
	e.nextID = next
	e.lastMove = MoveReport{Direction: dir, Gained: out.Gained, Merges: out.Merges, HasSpawn: spawned}
	if spawned {
		e.lastMove.Spawned = tiles[len(tiles)-1]
	}

	score := prev.Score + out.Gained
	e.bestScore = max(e.bestScore, score)

	e.replace(GameState{
		Tiles:          tiles,
		Score:          score,
		BestScore:      e.bestScore,
		GameOver:       IsGameOver(tiles),
		HasWon:         prev.HasWon || HasValue(tiles, WinValue),
		ShowWinOverlay: prev.ShowWinOverlay,
	})
	e.persist()
	return e.State(), true
}

// ContinueGame dismisses the win overlay so play can go on past 2048
// without the banner returning.
func (e *Engine) ContinueGame() GameState {
	if !e.state.ShowWinOverlay {
		return e.State()
	}
	next := e.state.Clone()
	next.ShowWinOverlay = false
	e.replace(next)
	e.persist()
	return e.State()
}

// SaveGame flushes the current snapshot to the store.
func (e *Engine) SaveGame() {
	if !e.started {
		return
	}
	e.persist()
}

// DeleteGame removes the saved game; the best score survives.
func (e *Engine) DeleteGame() {
	if err := e.store.DeleteGame(); err != nil {
		e.logger.Warn("delete failed", "err", err)
	}
}

// State returns a copy of the current snapshot.
func (e *Engine) State() GameState {
	return e.state.Clone()
}

// LastMove returns the report of the most recent effective move in the
// current game.
func (e *Engine) LastMove() MoveReport {
	return e.lastMove
}

// BestScore returns the best score seen by this engine.
func (e *Engine) BestScore() int {
	return e.bestScore
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription.
func (e *Engine) Subscribe(fn func(GameState)) (cancel func()) {
	id := e.listenerID
	e.listenerID++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

// replace installs a new current state and notifies subscribers.
func (e *Engine) replace(s GameState) {
	e.state = s
	for _, fn := range e.listeners {
		fn(s.Clone())
	}
}

// persist writes the current state. Failures are logged, never returned.
func (e *Engine) persist() {
	if err := e.store.SaveGame(e.state.Clone()); err != nil {
		e.logger.Warn("save failed, progress not saved", "err", err)
	}
}

type nopStore struct{}

func (nopStore) SaveGame(GameState) error { return nil }

func (nopStore) LoadGame() (GameState, bool) { return GameState{}, false }

func (nopStore) LoadBestScore() int { return 0 }

func (nopStore) DeleteGame() error { return nil }
