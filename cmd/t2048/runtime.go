package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// app bundles what every command needs: settings, a logger and the
// player's stores.
type app struct {
	cfg    config.Config
	user   string
	logger *log.Logger

	// scores is nil with the file backend, which keeps no history.
	scores *storage.Store
	games  *storage.GameStore

	closers []io.Closer
}

// logTarget selects where an app logs.
type logTarget int

const (
	logToFile   logTarget = iota // TUI sessions own the terminal
	logToStderr
)

// loadConfig reads the config and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	return cfg.Apply(config.Overrides{
		DataDir:  flagDataDir,
		Backend:  flagBackend,
		LogLevel: flagLogLevel,
	})
}

// newApp loads configuration and opens the stores for the current user.
func newApp(target logTarget) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data directory: %w", err)
	}

	a := &app{cfg: cfg, user: currentUser()}

	var out io.Writer = os.Stderr
	if target == logToFile {
		f, err := openLogFile(cfg.LogPath())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, f)
		out = f
	}
	a.logger = newLogger(out, cfg.LogLevel())

	switch cfg.Storage.Backend {
	case config.BackendFile:
		slots, err := storage.NewFileSlots(cfg.SlotDir())
		if err != nil {
			a.Close()
			return nil, err
		}
		a.games = storage.NewGameStore(slots, a.logger.WithPrefix("store"))
	default:
		store, err := storage.Open(cfg.DBPath())
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, store)
		a.scores = store
		a.games = storage.NewGameStore(store.Slots(a.user), a.logger.WithPrefix("store"))
	}

	a.logger.Debug("storage ready", "backend", cfg.Storage.Backend, "user", a.user, "data_dir", cfg.DataDir)
	return a, nil
}

// newEngine creates an engine on the user's game store.
func (a *app) newEngine() *t2048.Engine {
	return t2048.NewEngine(
		t2048.WithStore(a.games),
		t2048.WithRand(t2048.NewRand(flagSeed)),
		t2048.WithLogger(a.logger.WithPrefix("engine")),
	)
}

// Close releases the stores and the log file, newest first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
	a.closers = nil
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "t2048",
		Level:           level,
	})
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

// currentUser returns --user, then $USER, then "local".
func currentUser() string {
	if flagUser != "" {
		return flagUser
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
