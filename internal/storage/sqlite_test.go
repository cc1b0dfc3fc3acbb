package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore("alice", 64, 16, false); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("alice")
	if err != nil || high != 64 {
		t.Errorf("HighScore after reopen = %d, %v; want 64", high, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("alice", score, 64, false); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("bob", 5000, 2048, true); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("alice", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Owner != "alice" || scores[0].MaxTile != 64 || scores[0].Won {
		t.Errorf("unexpected entry: %+v", scores[0])
	}

	bobScores, err := store.TopScores("bob", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(bobScores) != 1 || !bobScores[0].Won || bobScores[0].MaxTile != 2048 {
		t.Errorf("bob scores = %+v", bobScores)
	}

	all, err := store.TopScores("", 10)
	if err != nil {
		t.Fatalf("TopScores(all) failed: %v", err)
	}
	if len(all) != 4 || all[0].Owner != "bob" {
		t.Errorf("all scores = %+v", all)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	// Save 5 scores
	for i := range 5 {
		store.SaveScore("test", (i+1)*100, 8, false)
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	// A non-positive limit falls back to 10
	scores, _ = store.TopScores("test", 0)
	if len(scores) != 5 {
		t.Errorf("Expected 5 scores with default limit, got %d", len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No scores yet
	high, err := store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for new player, got %d", high)
	}

	store.SaveScore("alice", 100, 8, false)
	store.SaveScore("alice", 300, 32, false)
	store.SaveScore("bob", 900, 64, false)

	high, err = store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	high, _ = store.HighScore("")
	if high != 900 {
		t.Errorf("Expected overall high score of 900, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("alice", 100, 8, false)
	store.SaveScore("alice", 200, 16, false)
	store.SaveScore("bob", 300, 32, false)

	if err := store.ClearScores("alice"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	aliceScores, _ := store.TopScores("alice", 10)
	if len(aliceScores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(aliceScores))
	}

	bobScores, _ := store.TopScores("bob", 10)
	if len(bobScores) != 1 {
		t.Errorf("bob's scores should not be affected by clearing alice")
	}

	if err := store.ClearScores(""); err != nil {
		t.Fatalf("ClearScores(all) failed: %v", err)
	}
	all, _ := store.TopScores("", 10)
	if len(all) != 0 {
		t.Errorf("Expected no scores after clearing all, got %d", len(all))
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats("alice")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveScore("alice", 100, 16, false)
	store.SaveScore("alice", 300, 2048, true)
	store.SaveScore("bob", 1000, 128, false)

	stats, err := store.Stats("alice")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
	if stats.BestTile != 2048 || stats.Wins != 1 {
		t.Errorf("BestTile/Wins = %d/%d, want 2048/1", stats.BestTile, stats.Wins)
	}

	all, _ := store.Stats("")
	if all.GamesCount != 3 || all.HighScore != 1000 {
		t.Errorf("overall stats = %+v", all)
	}
}

func TestSQLiteSlots(t *testing.T) {
	store := openTestStore(t)
	alice := store.Slots("alice")
	bob := store.Slots("bob")

	if _, err := alice.ReadSlot("game_state"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("ReadSlot on empty store: %v, want ErrSlotNotFound", err)
	}

	if err := alice.WriteSlot("game_state", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("WriteSlot() failed: %v", err)
	}
	if err := alice.WriteSlot("game_state", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("WriteSlot() overwrite failed: %v", err)
	}

	data, err := alice.ReadSlot("game_state")
	if err != nil || string(data) != `{"a":2}` {
		t.Errorf("ReadSlot() = %q, %v", data, err)
	}

	// Slots are private to their owner
	if _, err := bob.ReadSlot("game_state"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("bob read alice's slot: %v", err)
	}

	if err := alice.DeleteSlot("game_state"); err != nil {
		t.Fatalf("DeleteSlot() failed: %v", err)
	}
	if err := alice.DeleteSlot("game_state"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("second DeleteSlot() = %v, want ErrSlotNotFound", err)
	}
}
