package logic

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"
)

var entityUIDCounter int64

// NewUID returns a process-unique entity id.
func NewUID(prefix string) string {
	val := atomic.AddInt64(&entityUIDCounter, 1)
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), val)
}

var playerColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E2",
}

var namePrefixes = []string{"Swift", "Bold", "Shadow", "Blazing", "Silent", "Thunder"}
var nameSuffixes = []string{"Fox", "Wolf", "Eagle", "Dragon", "Tiger", "Bear"}

// RandomName generates a display name for players that join without one.
func RandomName() string {
	return namePrefixes[rand.Intn(len(namePrefixes))] + nameSuffixes[rand.Intn(len(nameSuffixes))]
}

// Arena is the canonical state of one room. It is exclusively owned by
// the room goroutine that ticks it; nothing here locks.
type Arena struct {
	ID     string
	Config *GameConfig

	Players     map[string]*Player
	Projectiles map[string]*Projectile
	CoinDrops   map[string]*CoinDrop
	Terrain     *Terrain
	Leaderboard []LeaderboardEntry

	StartTime         time.Time
	LastTerrainChange time.Time
	MatchEnded        bool

	// joinOrder preserves first-seen ordering for winner and
	// leaderboard tie-breaks (map iteration order is randomized).
	joinOrder     []string
	projectileSeq int64
}

// NewArena builds a session with freshly generated terrain.
func NewArena(id string, cfg *GameConfig, now time.Time) *Arena {
	return &Arena{
		ID:                id,
		Config:            cfg,
		Players:           make(map[string]*Player),
		Projectiles:       make(map[string]*Projectile),
		CoinDrops:         make(map[string]*CoinDrop),
		Terrain:           GenerateTerrain(cfg),
		StartTime:         now,
		LastTerrainChange: now,
	}
}

// AddPlayer spawns a new player at a Spawn-Locator-chosen coordinate.
// startingCoins comes from the profile store (or its default). A
// duplicate id returns the existing player unchanged, so a re-sent
// join can never double up joinOrder or the snapshot.
func (a *Arena) AddPlayer(id, userID, name string, startingCoins int) *Player {
	if p, ok := a.Players[id]; ok {
		return p
	}
	if name == "" {
		name = RandomName()
	}
	p := &Player{
		ID:      id,
		UserID:  userID,
		Name:    name,
		Color:   playerColors[rand.Intn(len(playerColors))],
		Pos:     FindSpawn(a.Config, a.Terrain.Obstacles),
		Health:  MaxHealth,
		Mana:    MaxMana,
		Coins:   startingCoins,
		IsAlive: true,
		Buffs:   []Buff{},
	}
	a.Players[id] = p
	a.joinOrder = append(a.joinOrder, id)
	return p
}

// RemovePlayer drops the player immediately; in-flight projectiles it
// owns keep flying but can no longer earn kill credit.
func (a *Arena) RemovePlayer(id string) {
	if _, ok := a.Players[id]; !ok {
		return
	}
	delete(a.Players, id)
	for i, pid := range a.joinOrder {
		if pid == id {
			a.joinOrder = append(a.joinOrder[:i], a.joinOrder[i+1:]...)
			break
		}
	}
}

// PlayerCount returns the number of players in the session.
func (a *Arena) PlayerCount() int {
	return len(a.Players)
}

// SetMoveIntent overwrites the player's movement intent; it takes
// effect on the next tick. Dead players' intents are kept but ignored
// by the tick until respawn.
func (a *Arena) SetMoveIntent(id string, forward, backward bool, angle float64) {
	p, ok := a.Players[id]
	if !ok {
		return
	}
	p.MoveForward = forward
	p.MoveBackward = backward
	p.AimAngle = angle
}

// Shoot attempts to fire a projectile for the player. Preconditions
// (alive, mana, server-enforced cooldown) failing is a silent no-op;
// the return value exists for metrics.
func (a *Arena) Shoot(id string, origin Vector2, angle float64, now time.Time) bool {
	g := a.Config.Gameplay
	p, ok := a.Players[id]
	if !ok || !p.IsAlive || p.Mana < g.ShotManaCost {
		return false
	}
	if !p.LastShotAt.IsZero() && now.Sub(p.LastShotAt) < time.Duration(g.FireCooldownMs)*time.Millisecond {
		return false
	}
	p.LastShotAt = now
	p.Mana -= g.ShotManaCost

	damage := g.BaseDamage
	if p.HasActiveBuff(BuffPower, now) {
		damage *= 2
	}

	a.projectileSeq++
	proj := &Projectile{
		ID:      fmt.Sprintf("%s-%d", id, a.projectileSeq),
		Pos:     origin,
		Vel:     Vector2{X: math.Cos(angle) * g.ProjectileSpeed, Y: math.Sin(angle) * g.ProjectileSpeed},
		OwnerID: id,
		Damage:  damage,
	}
	a.Projectiles[proj.ID] = proj
	return true
}

// HasActiveBuff reports whether the player holds an unexpired buff of
// the given type.
func (p *Player) HasActiveBuff(buffType string, now time.Time) bool {
	nowMs := now.UnixMilli()
	for _, b := range p.Buffs {
		if b.Type == buffType && b.ExpiresAt > nowMs {
			return true
		}
	}
	return false
}
