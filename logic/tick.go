package logic

import (
	"math"
	"sort"
	"time"
)

// RespawnEvent notifies a single connection of its resurrection point.
type RespawnEvent struct {
	PlayerID string
	Pos      Vector2
}

// KillEvent notifies the whole room of a kill. KillerID may reference a
// player that already disconnected.
type KillEvent struct {
	KilledID   string
	KilledName string
	KillerID   string
}

// TickEvents collects notifications produced by one simulation step.
// The network layer owns all emission.
type TickEvents struct {
	Respawns []RespawnEvent
	Kills    []KillEvent
}

// Tick advances the session by dt seconds of real elapsed time. It is
// the only place session entities mutate once the match is running;
// the room goroutine calls it at the fixed cadence.
func (a *Arena) Tick(now time.Time, dt float64) TickEvents {
	var events TickEvents
	deltaMs := dt * 1000

	a.tickRespawns(deltaMs, &events)
	a.tickMovement(now, dt)
	a.tickMana(now, dt)
	a.tickProjectiles(now, dt, &events)
	a.tickExpiry(now)
	a.refreshLeaderboard(now)

	return events
}

func (a *Arena) tickRespawns(deltaMs float64, events *TickEvents) {
	for _, p := range a.Players {
		if p.IsAlive {
			continue
		}
		p.RespawnMs -= deltaMs
		if p.RespawnMs > 0 {
			continue
		}
		p.RespawnMs = 0
		p.IsAlive = true
		p.Health = MaxHealth
		p.Mana = MaxMana
		p.Pos = FindSpawn(a.Config, a.Terrain.Obstacles)
		events.Respawns = append(events.Respawns, RespawnEvent{PlayerID: p.ID, Pos: p.Pos})
	}
}

func (a *Arena) tickMovement(now time.Time, dt float64) {
	g := a.Config.Gameplay
	for _, p := range a.Players {
		if !p.IsAlive {
			continue
		}

		speed := g.MoveSpeed
		if p.HasActiveBuff(BuffSpeed, now) {
			speed *= BuffCatalog[BuffSpeed].Multiplier
		}

		switch {
		case p.MoveForward:
			p.Vel = Vector2{X: math.Cos(p.AimAngle) * speed, Y: math.Sin(p.AimAngle) * speed}
		case p.MoveBackward:
			p.Vel = Vector2{X: -math.Cos(p.AimAngle) * speed, Y: -math.Sin(p.AimAngle) * speed}
		default:
			// Exponential damping, not physical friction.
			p.Vel.X *= 0.9
			p.Vel.Y *= 0.9
		}

		candidate := Vector2{X: p.Pos.X + p.Vel.X*dt, Y: p.Pos.Y + p.Vel.Y*dt}
		if !CheckCollision(a.Config, a.Terrain.Obstacles, candidate, g.PlayerSize) {
			p.Pos = candidate
		} else {
			// Rejected moves do not slide; the position is only
			// clamped back into arena bounds.
			half := g.PlayerSize / 2
			p.Pos.X = clamp(p.Pos.X, half, a.Config.Arena.Width-half)
			p.Pos.Y = clamp(p.Pos.Y, half, a.Config.Arena.Height-half)
		}
	}
}

func (a *Arena) tickMana(now time.Time, dt float64) {
	g := a.Config.Gameplay
	for _, p := range a.Players {
		if !p.IsAlive {
			continue
		}
		regen := g.ManaRegenPerSec
		if p.HasActiveBuff(BuffMana, now) {
			regen *= BuffCatalog[BuffMana].Multiplier
		}
		p.Mana = math.Min(MaxMana, p.Mana+regen*dt)
	}
}

func (a *Arena) tickProjectiles(now time.Time, dt float64, events *TickEvents) {
	g := a.Config.Gameplay
	var toRemove []string

	for id, proj := range a.Projectiles {
		proj.Pos.X += proj.Vel.X * dt
		proj.Pos.Y += proj.Vel.Y * dt

		// Cull beyond the owner's vision radius (fog-of-war proxy).
		if owner, ok := a.Players[proj.OwnerID]; ok {
			if Dist(proj.Pos, owner.Pos) > g.VisionRadius {
				toRemove = append(toRemove, id)
				continue
			}
		}

		if proj.Pos.X < 0 || proj.Pos.X > a.Config.Arena.Width ||
			proj.Pos.Y < 0 || proj.Pos.Y > a.Config.Arena.Height {
			toRemove = append(toRemove, id)
			continue
		}

		for _, target := range a.Players {
			if target.ID == proj.OwnerID || !target.IsAlive {
				continue
			}
			if Dist(proj.Pos, target.Pos) >= g.PlayerSize/2 {
				continue
			}

			a.resolveHit(proj, target, now, events)
			// A projectile resolves against at most one target.
			toRemove = append(toRemove, id)
			break
		}
	}

	for _, id := range toRemove {
		delete(a.Projectiles, id)
	}
}

func (a *Arena) resolveHit(proj *Projectile, target *Player, now time.Time, events *TickEvents) {
	damage := proj.Damage
	if target.HasActiveBuff(BuffShield, now) {
		damage *= 1 - BuffCatalog[BuffShield].Multiplier
	}
	target.Health -= damage
	if target.Health > 0 {
		return
	}

	target.Health = 0
	target.IsAlive = false
	target.RespawnMs = a.Config.Gameplay.RespawnMs

	// Kill credit only if the shooter is still in the session.
	if shooter, ok := a.Players[proj.OwnerID]; ok {
		shooter.Kills++
		shooter.Coins += a.Config.Gameplay.KillReward
	}

	coinID := NewUID("coin")
	a.CoinDrops[coinID] = &CoinDrop{
		ID:        coinID,
		Pos:       target.Pos,
		Value:     a.Config.Gameplay.KillReward,
		ExpiresAt: now.UnixMilli() + a.Config.Gameplay.CoinDropLifetimeMs,
	}

	events.Kills = append(events.Kills, KillEvent{
		KilledID:   target.ID,
		KilledName: target.Name,
		KillerID:   proj.OwnerID,
	})
}

func (a *Arena) tickExpiry(now time.Time) {
	nowMs := now.UnixMilli()
	g := a.Config.Gameplay

	for _, p := range a.Players {
		if !p.IsAlive {
			continue
		}
		kept := p.Buffs[:0]
		for _, b := range p.Buffs {
			if b.ExpiresAt > nowMs {
				kept = append(kept, b)
			}
		}
		p.Buffs = kept

		for id, coin := range a.CoinDrops {
			if Dist(p.Pos, coin.Pos) < g.PlayerSize {
				p.Coins += coin.Value
				delete(a.CoinDrops, id)
			}
		}
	}

	for id, coin := range a.CoinDrops {
		if coin.ExpiresAt < nowMs {
			delete(a.CoinDrops, id)
		}
	}
}

func (a *Arena) refreshLeaderboard(now time.Time) {
	nowMs := now.UnixMilli()
	entries := make([]LeaderboardEntry, 0, len(a.joinOrder))
	for _, id := range a.joinOrder {
		p, ok := a.Players[id]
		if !ok {
			continue
		}
		active := make([]Buff, 0, len(p.Buffs))
		for _, b := range p.Buffs {
			if b.ExpiresAt > nowMs {
				active = append(active, b)
			}
		}
		entries = append(entries, LeaderboardEntry{
			ID:     p.ID,
			Name:   p.Name,
			Kills:  p.Kills,
			Coins:  p.Coins,
			Health: p.Health,
			Buffs:  active,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Kills > entries[j].Kills })
	if len(entries) > a.Config.Match.LeaderboardSize {
		entries = entries[:a.Config.Match.LeaderboardSize]
	}
	a.Leaderboard = entries
}
