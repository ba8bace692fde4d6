package logic

import "time"

// Vector2 represents a 2D position or velocity
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Health and mana are always clamped to [0, Max].
const (
	MaxHealth = 100.0
	MaxMana   = 100.0
)

// Buff types sold by the shop
const (
	BuffSpeed  = "speed"
	BuffMana   = "mana"
	BuffPower  = "power"
	BuffShield = "shield"
)

// Buff is a timed effect on a player. ExpiresAt is epoch milliseconds;
// the effect ends as soon as a tick observes the deadline has passed.
type Buff struct {
	Type      string `json:"type"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Player represents a connected user in the arena simulation. Wire
// serialization goes through Snapshot views, never this struct.
type Player struct {
	ID        string
	UserID    string // external profile id, may be empty
	Name      string
	Color     string
	Pos       Vector2
	Health    float64
	Mana      float64
	Kills     int
	Coins     int
	IsAlive   bool
	RespawnMs float64
	Buffs     []Buff

	// Intent staged by the gateway, consumed on the next tick.
	Vel          Vector2
	MoveForward  bool
	MoveBackward bool
	AimAngle     float64
	LastShotAt   time.Time
}

// Projectile damage is fixed at fire time; buffs gained while the shot
// is in flight do not change it.
type Projectile struct {
	ID      string
	Pos     Vector2
	Vel     Vector2
	OwnerID string
	Damage  float64
}

// Obstacle is an axis-aligned rectangle. Immutable once generated;
// terrain rotation replaces the whole set.
type Obstacle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the obstacle's center point.
func (o Obstacle) Center() Vector2 {
	return Vector2{X: o.X + o.Width/2, Y: o.Y + o.Height/2}
}

// Shop is a fixed point players must stand near to buy buffs (the
// proximity check lives in the client, see DESIGN.md).
type Shop struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Center returns the shop's position as a vector.
func (s Shop) Center() Vector2 {
	return Vector2{X: s.X, Y: s.Y}
}

// CoinDrop is a pickup spawned in the world with an absolute expiry.
type CoinDrop struct {
	ID        string
	Pos       Vector2
	Value     int
	ExpiresAt int64
}

// LeaderboardEntry is a read-only projection recomputed every tick.
type LeaderboardEntry struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Kills  int     `json:"kills"`
	Coins  int     `json:"coins"`
	Health float64 `json:"health"`
	Buffs  []Buff  `json:"buffs"`
}
