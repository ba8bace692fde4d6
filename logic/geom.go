package logic

import "math"

// Dist returns the euclidean distance between two points.
func Dist(a, b Vector2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func clamp(v, minV, maxV float64) float64 {
	return math.Max(minV, math.Min(maxV, v))
}

// overlapsObstacle checks a square entity of the given size centered at
// pos against one obstacle rectangle.
func overlapsObstacle(pos Vector2, size float64, o Obstacle) bool {
	half := size / 2
	return !(pos.X+half < o.X || pos.X-half > o.X+o.Width ||
		pos.Y+half < o.Y || pos.Y-half > o.Y+o.Height)
}

// CheckCollision reports whether a square entity of the given size
// centered at pos leaves the arena or intersects any obstacle.
func CheckCollision(cfg *GameConfig, obstacles []Obstacle, pos Vector2, size float64) bool {
	half := size / 2
	if pos.X-half < 0 || pos.X+half > cfg.Arena.Width ||
		pos.Y-half < 0 || pos.Y+half > cfg.Arena.Height {
		return true
	}
	for _, o := range obstacles {
		if overlapsObstacle(pos, size, o) {
			return true
		}
	}
	return false
}
