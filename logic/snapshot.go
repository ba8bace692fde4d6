package logic

import "time"

// PlayerView is the wire projection of a player inside a gameState
// frame. Coordinates are flat x/y, matching the shipped client.
type PlayerView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Health       float64 `json:"health"`
	Mana         float64 `json:"mana"`
	Coins        int     `json:"coins"`
	Kills        int     `json:"kills"`
	Color        string  `json:"color"`
	IsAlive      bool    `json:"isAlive"`
	RespawnTimer float64 `json:"respawnTimer"`
	Buffs        []Buff  `json:"buffs"`
}

// ProjectileView is the wire projection of one projectile.
type ProjectileView struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	PlayerID string  `json:"playerId"`
	Damage   float64 `json:"damage"`
}

// CoinDropView is the wire projection of one coin pickup.
type CoinDropView struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Value     int     `json:"value"`
	ExpiresAt int64   `json:"expiresAt"`
}

// Snapshot is the full-session state broadcast to room subscribers
// every tick.
type Snapshot struct {
	Players            []PlayerView       `json:"players"`
	Projectiles        []ProjectileView   `json:"projectiles"`
	CoinDrops          []CoinDropView     `json:"coinDrops"`
	Shops              []Shop             `json:"shops"`
	Leaderboard        []LeaderboardEntry `json:"leaderboard"`
	GameTime           int64              `json:"gameTime"`
	TimeUntilMapChange int64              `json:"timeUntilMapChange"`
	TimeUntilMatchEnd  int64              `json:"timeUntilMatchEnd"`
}

// Snapshot assembles the wire view of the session. Countdown fields are
// clamped at zero.
func (a *Arena) Snapshot(now time.Time) Snapshot {
	players := make([]PlayerView, 0, len(a.Players))
	for _, id := range a.joinOrder {
		p, ok := a.Players[id]
		if !ok {
			continue
		}
		players = append(players, PlayerView{
			ID:           p.ID,
			Name:         p.Name,
			X:            p.Pos.X,
			Y:            p.Pos.Y,
			Health:       p.Health,
			Mana:         p.Mana,
			Coins:        p.Coins,
			Kills:        p.Kills,
			Color:        p.Color,
			IsAlive:      p.IsAlive,
			RespawnTimer: p.RespawnMs,
			Buffs:        p.Buffs,
		})
	}
	projectiles := make([]ProjectileView, 0, len(a.Projectiles))
	for _, proj := range a.Projectiles {
		projectiles = append(projectiles, ProjectileView{
			ID:       proj.ID,
			X:        proj.Pos.X,
			Y:        proj.Pos.Y,
			VX:       proj.Vel.X,
			VY:       proj.Vel.Y,
			PlayerID: proj.OwnerID,
			Damage:   proj.Damage,
		})
	}
	coins := make([]CoinDropView, 0, len(a.CoinDrops))
	for _, c := range a.CoinDrops {
		coins = append(coins, CoinDropView{
			ID:        c.ID,
			X:         c.Pos.X,
			Y:         c.Pos.Y,
			Value:     c.Value,
			ExpiresAt: c.ExpiresAt,
		})
	}

	elapsed := a.Elapsed(now).Milliseconds()
	untilRotation := a.Config.Match.TerrainRotationMs - now.Sub(a.LastTerrainChange).Milliseconds()
	untilEnd := a.Config.Match.DurationMs - elapsed

	return Snapshot{
		Players:            players,
		Projectiles:        projectiles,
		CoinDrops:          coins,
		Shops:              a.Terrain.Shops,
		Leaderboard:        a.Leaderboard,
		GameTime:           elapsed,
		TimeUntilMapChange: max64(0, untilRotation),
		TimeUntilMatchEnd:  max64(0, untilEnd),
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
