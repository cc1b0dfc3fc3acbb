package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed for reproducible gameplay, 0 = time based
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0, // 0 means use current time in platform layer
	}
}

// Status is the summary a game reports to the platform after each step.
type Status struct {
	Score     int  // Current score
	BestScore int  // Best score across games
	MaxTile   int  // Highest tile on the board
	GameOver  bool // Whether the game has ended
	Won       bool // Whether the win tile was reached this game
}

// StepResult is returned by Game.Step() after each input.
type StepResult struct {
	Status  Status
	Changed bool // Whether the input changed the game state

	// Finished is set when a game ended on this step, either by reaching a
	// terminal board or by being abandoned for a new one. Final holds the
	// ended game's summary.
	Finished bool
	Final    Status
}
