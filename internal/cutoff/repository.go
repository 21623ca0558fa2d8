package cutoff

import "context"

// Repo persists the player cutoff (current-game capacity) per game.
// Game keys arrive already normalised by the caller.
type Repo interface {
	// Get returns the stored cutoff and whether one exists.
	Get(ctx context.Context, game string) (int, bool, error)
	Set(ctx context.Context, game string, cutoff int) error
	All(ctx context.Context) (map[string]int, error)
}
