package logic

import "math/rand"

// FindSpawn draws up to SpawnAttempts uniform-random points inside the
// spawn margin, accepting the first one whose player-sized bounding box
// is clear of obstacles and in-bounds. Falls back to the arena center,
// which guarantees termination. Used for both initial join and respawn.
func FindSpawn(cfg *GameConfig, obstacles []Obstacle) Vector2 {
	a := cfg.Arena
	for attempt := 0; attempt < a.SpawnAttempts; attempt++ {
		pos := Vector2{
			X: a.SpawnMargin + rand.Float64()*(a.Width-a.SpawnMargin*2),
			Y: a.SpawnMargin + rand.Float64()*(a.Height-a.SpawnMargin*2),
		}
		if !CheckCollision(cfg, obstacles, pos, cfg.Gameplay.PlayerSize) {
			return pos
		}
	}
	return Vector2{X: a.Width / 2, Y: a.Height / 2}
}
