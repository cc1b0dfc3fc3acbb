package t2048

import (
	"errors"
	"testing"
)

// scriptedRand replays fixed values. Once a script runs out Intn picks the
// first empty cell and Float64 yields a 2.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// memStore is an in-memory Store that counts writes.
type memStore struct {
	saved   *GameState
	best    int
	saves   int
	deletes int
	failErr error
}

func (m *memStore) SaveGame(s GameState) error {
	m.saves++
	if m.failErr != nil {
		return m.failErr
	}
	c := s.Clone()
	m.saved = &c
	m.best = max(m.best, s.BestScore)
	return nil
}

func (m *memStore) LoadGame() (GameState, bool) {
	if m.saved == nil {
		return GameState{}, false
	}
	return m.saved.Clone(), true
}

func (m *memStore) LoadBestScore() int {
	return m.best
}

func (m *memStore) DeleteGame() error {
	m.deletes++
	m.saved = nil
	return nil
}

func savedStore(s GameState) *memStore {
	return &memStore{saved: &s}
}

func startedEngine(t *testing.T, store *memStore, rng Rand) *Engine {
	t.Helper()
	if rng == nil {
		rng = &scriptedRand{}
	}
	e := NewEngine(WithStore(store), WithRand(rng))
	e.Start()
	return e
}

func TestNewGameSeedsTwoTiles(t *testing.T) {
	store := &memStore{}
	e := startedEngine(t, store, nil)

	state := e.State()
	want := Board{
		{ID: 0, Value: 2, Position: 0},
		{ID: 1, Value: 2, Position: 1},
	}
	if !state.Equal(GameState{Tiles: want, ShowWinOverlay: true}) {
		t.Errorf("new game = %+v, want tiles %+v", state, want)
	}
	if store.saves != 1 {
		t.Errorf("new game saves = %d, want 1", store.saves)
	}
}

func TestNewGameSpawnsFours(t *testing.T) {
	e := startedEngine(t, &memStore{}, &scriptedRand{
		ints:   []int{5, 9},
		floats: []float64{0.05, 0.95},
	})

	g := e.State().Grid()
	if g[1][1] != 4 {
		t.Errorf("cell 5 = %d, want 4", g[1][1])
	}
	// Position 5 is taken, so index 9 of the remaining cells is position 10.
	if g[2][2] != 2 {
		t.Errorf("cell 10 = %d, want 2\n%v", g[2][2], g)
	}
}

func TestNewGameResetsIDsAndKeepsBest(t *testing.T) {
	store := savedStore(GameState{
		Tiles:          BoardFromGrid(Grid{{2, 2, 0, 0}}),
		ShowWinOverlay: true,
	})
	e := startedEngine(t, store, nil)

	if _, moved := e.Move(DirLeft); !moved {
		t.Fatal("expected move to be effective")
	}
	if e.BestScore() != 4 {
		t.Fatalf("best = %d, want 4", e.BestScore())
	}

	state := e.NewGame()
	if state.Score != 0 || state.BestScore != 4 {
		t.Errorf("new game score/best = %d/%d, want 0/4", state.Score, state.BestScore)
	}
	for i, tile := range state.Tiles {
		if tile.ID != i {
			t.Errorf("tile %d id = %d, want %d", i, tile.ID, i)
		}
	}
	if len(e.LastMove().Merges) != 0 {
		t.Error("new game should clear the last move report")
	}
}

func TestMoveMergesAndScores(t *testing.T) {
	store := savedStore(GameState{
		Tiles:          BoardFromGrid(Grid{{2, 2, 2, 2}}),
		ShowWinOverlay: true,
	})
	e := startedEngine(t, store, nil)

	state, moved := e.Move(DirLeft)
	if !moved {
		t.Fatal("expected move to be effective")
	}
	if state.Score != 8 {
		t.Errorf("score = %d, want 8", state.Score)
	}
	if state.Grid()[0] != [4]int{4, 4, 2, 0} {
		t.Errorf("row 0 = %v, want [4 4 2 0]", state.Grid()[0])
	}

	want := Board{
		{ID: 4, Value: 4, Position: 0},
		{ID: 5, Value: 4, Position: 1},
		{ID: 6, Value: 2, Position: 2},
	}
	if !state.Equal(GameState{Tiles: want, Score: 8, BestScore: 8, ShowWinOverlay: true}) {
		t.Errorf("state = %+v, want tiles %+v", state, want)
	}

	last := e.LastMove()
	if last.Gained != 8 || len(last.Merges) != 2 || !last.HasSpawn || last.Spawned.ID != 6 {
		t.Errorf("last move = %+v", last)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestIneffectiveMoveChangesNothing(t *testing.T) {
	store := savedStore(GameState{
		Tiles:          BoardFromGrid(Grid{{2, 4, 0, 0}}),
		Score:          12,
		ShowWinOverlay: true,
	})
	rng := &scriptedRand{}
	e := startedEngine(t, store, rng)
	before := e.State()

	state, moved := e.Move(DirLeft)
	if moved {
		t.Error("move against the wall should be ineffective")
	}
	if !state.Equal(before) {
		t.Errorf("state changed: %+v -> %+v", before, state)
	}
	if store.saves != 0 {
		t.Errorf("ineffective move saved %d times", store.saves)
	}
}

func TestMoveFillsBoardToGameOver(t *testing.T) {
	store := savedStore(GameState{
		Tiles: BoardFromGrid(Grid{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{2, 4, 2, 0},
		}),
		Score:          100,
		ShowWinOverlay: true,
	})
	e := startedEngine(t, store, &scriptedRand{floats: []float64{0.05}})

	state, moved := e.Move(DirRight)
	if !moved {
		t.Fatal("expected move to be effective")
	}
	if !state.GameOver {
		t.Fatalf("expected game over\n%v", state.Grid())
	}
	if state.Phase() != PhaseGameOver {
		t.Errorf("phase = %s, want %s", state.Phase(), PhaseGameOver)
	}
	if state.Score != 100 {
		t.Errorf("score = %d, want 100", state.Score)
	}

	saves := store.saves
	after, moved := e.Move(DirLeft)
	if moved || !after.Equal(state) {
		t.Error("moves after game over must be ignored")
	}
	if store.saves != saves {
		t.Error("moves after game over must not save")
	}
}

func TestWinIsStickyAndContinueHidesOverlay(t *testing.T) {
	store := savedStore(GameState{
		Tiles:          BoardFromGrid(Grid{{1024, 1024, 0, 0}}),
		ShowWinOverlay: true,
	})
	e := startedEngine(t, store, nil)

	state, _ := e.Move(DirLeft)
	if !state.HasWon || !state.WinVisible() {
		t.Fatalf("expected visible win, got %+v", state)
	}
	if state.Phase() != PhaseWon {
		t.Errorf("phase = %s, want %s", state.Phase(), PhaseWon)
	}

	state = e.ContinueGame()
	if !state.HasWon || state.ShowWinOverlay || state.WinVisible() {
		t.Errorf("after continue: %+v", state)
	}

	state, moved := e.Move(DirDown)
	if !moved {
		t.Fatal("expected move to be effective")
	}
	if !state.HasWon || state.ShowWinOverlay {
		t.Errorf("win flags after further play: hasWon=%v overlay=%v", state.HasWon, state.ShowWinOverlay)
	}

	saves := store.saves
	e.ContinueGame()
	if store.saves != saves {
		t.Error("continuing twice should not save again")
	}
}

func TestWinSurvivesWithoutWinningTile(t *testing.T) {
	store := savedStore(GameState{
		Tiles:  Board{{ID: 0, Value: 2, Position: 0}},
		HasWon: true,
	})
	e := startedEngine(t, store, nil)

	state, moved := e.Move(DirRight)
	if !moved || !state.HasWon {
		t.Errorf("hasWon must stay set: moved=%v state=%+v", moved, state)
	}
}

func TestStartResumesIDCounter(t *testing.T) {
	store := savedStore(GameState{
		Tiles: Board{
			{ID: 3, Value: 2, Position: 0},
			{ID: 7, Value: 2, Position: 1},
		},
	})
	e := startedEngine(t, store, nil)

	if store.saves != 0 {
		t.Errorf("restoring a game should not save, got %d", store.saves)
	}

	e.Move(DirLeft)
	merges := e.LastMove().Merges
	if len(merges) != 1 || merges[0].Result.ID != 8 {
		t.Errorf("merges = %+v, want result id 8", merges)
	}
	if e.LastMove().Spawned.ID != 9 {
		t.Errorf("spawned id = %d, want 9", e.LastMove().Spawned.ID)
	}
}

func TestStartDiscardsInvalidSave(t *testing.T) {
	store := savedStore(GameState{
		Tiles: Board{
			{ID: 0, Value: 2, Position: 3},
			{ID: 1, Value: 4, Position: 3},
		},
		Score: 40,
	})
	e := startedEngine(t, store, nil)

	state := e.State()
	if state.Score != 0 || len(state.Tiles) != 2 {
		t.Errorf("expected a fresh game, got %+v", state)
	}
	if err := state.Validate(); err != nil {
		t.Errorf("fresh game invalid: %v", err)
	}
	if store.saves != 1 {
		t.Errorf("fresh game should be saved once, got %d", store.saves)
	}
}

func TestBestScoreNeverDecreases(t *testing.T) {
	store := savedStore(GameState{
		Tiles:     BoardFromGrid(Grid{{2, 2, 0, 0}}),
		Score:     20,
		BestScore: 50,
	})
	store.best = 100
	e := startedEngine(t, store, nil)

	if got := e.State().BestScore; got != 100 {
		t.Errorf("best after start = %d, want 100", got)
	}

	state, _ := e.Move(DirLeft)
	if state.BestScore != 100 {
		t.Errorf("best after move = %d, want 100", state.BestScore)
	}

	state = e.NewGame()
	if state.BestScore != 100 {
		t.Errorf("best after new game = %d, want 100", state.BestScore)
	}
}

func TestSaveFailureDoesNotStopPlay(t *testing.T) {
	store := &memStore{failErr: errors.New("disk full")}
	e := startedEngine(t, store, nil)

	if _, moved := e.Move(DirDown); !moved {
		t.Error("play should continue when saving fails")
	}
	if len(e.State().Tiles) != 3 {
		t.Errorf("tiles = %d, want 3", len(e.State().Tiles))
	}
}

func TestDeleteGame(t *testing.T) {
	store := &memStore{}
	e := startedEngine(t, store, nil)
	e.Move(DirDown)

	e.DeleteGame()
	if store.deletes != 1 || store.saved != nil {
		t.Errorf("delete not forwarded: deletes=%d saved=%v", store.deletes, store.saved)
	}
}

func TestSaveGameBeforeStart(t *testing.T) {
	store := &memStore{}
	e := NewEngine(WithStore(store))

	e.SaveGame()
	if store.saves != 0 {
		t.Error("SaveGame before Start must not write an empty board")
	}
}

func TestSubscribe(t *testing.T) {
	e := NewEngine(WithRand(&scriptedRand{}))

	var seen []GameState
	cancel := e.Subscribe(func(s GameState) { seen = append(seen, s) })

	e.Start()
	e.Move(DirDown)
	if len(seen) != 2 {
		t.Fatalf("notifications = %d, want 2", len(seen))
	}
	if !seen[1].Equal(e.State()) {
		t.Error("last notification should match current state")
	}

	cancel()
	e.Move(DirRight)
	if len(seen) != 2 {
		t.Errorf("notifications after cancel = %d, want 2", len(seen))
	}
}

func TestDeterministicSeed(t *testing.T) {
	e1 := NewEngine(WithRand(NewRand(12345)))
	e2 := NewEngine(WithRand(NewRand(12345)))

	s1 := e1.Start()
	s2 := e2.Start()
	if !s1.Equal(s2) {
		t.Fatal("same seed should produce the same opening board")
	}

	for i := range 50 {
		dir := Directions[i%len(Directions)]
		a, _ := e1.Move(dir)
		b, _ := e2.Move(dir)
		if !a.Equal(b) {
			t.Fatalf("boards diverged after move %d", i)
		}
	}
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	e := NewEngine(WithRand(NewRand(7)))
	prev := e.Start()

	for i := range 500 {
		dir := Directions[(i*7+i/3)%len(Directions)]
		state, moved := e.Move(dir)

		if err := state.Validate(); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if state.Score < prev.Score {
			t.Fatalf("move %d: score dropped from %d to %d", i, prev.Score, state.Score)
		}
		if state.BestScore < state.Score {
			t.Fatalf("move %d: best %d below score %d", i, state.BestScore, state.Score)
		}

		if moved {
			last := e.LastMove()
			if !last.HasSpawn {
				t.Fatalf("move %d: effective move without spawn", i)
			}
			if last.Spawned.Value != 2 && last.Spawned.Value != 4 {
				t.Fatalf("move %d: spawned %d", i, last.Spawned.Value)
			}
			if want := len(prev.Tiles) - len(last.Merges) + 1; len(state.Tiles) != want {
				t.Fatalf("move %d: %d tiles, want %d", i, len(state.Tiles), want)
			}
		} else if !state.Equal(prev) {
			t.Fatalf("move %d: ineffective move changed state", i)
		}

		prev = state
		if state.GameOver {
			prev = e.NewGame()
		}
	}
}
