package logic

import "math"

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func clampInt64(v, minV, maxV int64) int64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func clampFloat(v, minV, maxV float64) float64 {
	if math.IsNaN(v) {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// ClampGameConfig enforces hard safety bounds for room configs.
// It mutates cfg in-place so callers can accept user-provided values
// while guaranteeing sane limits.
func ClampGameConfig(cfg *GameConfig) {
	if cfg == nil {
		return
	}

	// --- server ---
	cfg.Server.TickRateHz = clampInt(cfg.Server.TickRateHz, 5, 120)
	cfg.Server.MaxPlayers = clampInt(cfg.Server.MaxPlayers, 1, 16)

	// --- arena ---
	cfg.Arena.Width = clampFloat(cfg.Arena.Width, 800, 10000)
	cfg.Arena.Height = clampFloat(cfg.Arena.Height, 600, 10000)
	cfg.Arena.ObstacleCount = clampInt(cfg.Arena.ObstacleCount, 0, 64)
	cfg.Arena.ObstacleMinWidth = clampFloat(cfg.Arena.ObstacleMinWidth, 10, 400)
	cfg.Arena.ObstacleMaxWidth = clampFloat(cfg.Arena.ObstacleMaxWidth, cfg.Arena.ObstacleMinWidth, 400)
	cfg.Arena.ObstacleMinHeight = clampFloat(cfg.Arena.ObstacleMinHeight, 10, 400)
	cfg.Arena.ObstacleMaxHeight = clampFloat(cfg.Arena.ObstacleMaxHeight, cfg.Arena.ObstacleMinHeight, 400)
	cfg.Arena.ObstacleMargin = clampFloat(cfg.Arena.ObstacleMargin, 0, cfg.Arena.Width/4)
	cfg.Arena.ObstacleSpacing = clampFloat(cfg.Arena.ObstacleSpacing, 0, 600)
	cfg.Arena.ShopCount = clampInt(cfg.Arena.ShopCount, 0, 8)
	cfg.Arena.ShopMargin = clampFloat(cfg.Arena.ShopMargin, 0, cfg.Arena.Width/4)
	cfg.Arena.ShopClearance = clampFloat(cfg.Arena.ShopClearance, 0, 600)
	cfg.Arena.ShopRadius = clampFloat(cfg.Arena.ShopRadius, 10, 400)
	cfg.Arena.SpawnMargin = clampFloat(cfg.Arena.SpawnMargin, 0, cfg.Arena.Width/4)
	cfg.Arena.SpawnAttempts = clampInt(cfg.Arena.SpawnAttempts, 1, 1000)

	// --- gameplay ---
	cfg.Gameplay.PlayerSize = clampFloat(cfg.Gameplay.PlayerSize, 2, 100)
	cfg.Gameplay.MoveSpeed = clampFloat(cfg.Gameplay.MoveSpeed, 10, 2000)
	cfg.Gameplay.ManaRegenPerSec = clampFloat(cfg.Gameplay.ManaRegenPerSec, 0, MaxMana)
	cfg.Gameplay.ShotManaCost = clampFloat(cfg.Gameplay.ShotManaCost, 0, MaxMana)
	cfg.Gameplay.ProjectileSpeed = clampFloat(cfg.Gameplay.ProjectileSpeed, 10, 5000)
	cfg.Gameplay.FireCooldownMs = clampInt64(cfg.Gameplay.FireCooldownMs, 0, 10000)
	cfg.Gameplay.RespawnMs = clampFloat(cfg.Gameplay.RespawnMs, 0, 600000)
	cfg.Gameplay.BaseDamage = clampFloat(cfg.Gameplay.BaseDamage, 1, MaxHealth)
	cfg.Gameplay.VisionRadius = clampFloat(cfg.Gameplay.VisionRadius, 50, 2000)
	cfg.Gameplay.StartingCoins = clampInt(cfg.Gameplay.StartingCoins, 0, 100000)
	cfg.Gameplay.KillReward = clampInt(cfg.Gameplay.KillReward, 0, 100000)
	cfg.Gameplay.CoinDropLifetimeMs = clampInt64(cfg.Gameplay.CoinDropLifetimeMs, 1000, 600000)

	// --- match ---
	cfg.Match.DurationMs = clampInt64(cfg.Match.DurationMs, 30000, 7200000)
	cfg.Match.TerrainRotationMs = clampInt64(cfg.Match.TerrainRotationMs, 10000, cfg.Match.DurationMs)
	cfg.Match.RematchDelayMs = clampInt64(cfg.Match.RematchDelayMs, 1000, 600000)
	cfg.Match.LeaderboardSize = clampInt(cfg.Match.LeaderboardSize, 1, 50)
}
