package logic

import (
	"encoding/json"
	"os"
	"time"
)

// GameConfig mirrors game_config.json
type GameConfig struct {
	Server struct {
		TickRateHz int `json:"tick_rate_hz"`
		MaxPlayers int `json:"max_players_per_room"`
	} `json:"server"`
	Arena struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`

		ObstacleCount     int     `json:"obstacle_count"`
		ObstacleMinWidth  float64 `json:"obstacle_min_width"`
		ObstacleMaxWidth  float64 `json:"obstacle_max_width"`
		ObstacleMinHeight float64 `json:"obstacle_min_height"`
		ObstacleMaxHeight float64 `json:"obstacle_max_height"`
		ObstacleMargin    float64 `json:"obstacle_margin"`
		ObstacleSpacing   float64 `json:"obstacle_spacing"`

		ShopCount     int     `json:"shop_count"`
		ShopMargin    float64 `json:"shop_margin"`
		ShopClearance float64 `json:"shop_clearance"`
		ShopRadius    float64 `json:"shop_radius"`

		SpawnMargin   float64 `json:"spawn_margin"`
		SpawnAttempts int     `json:"spawn_attempts"`
	} `json:"arena"`
	Gameplay struct {
		PlayerSize         float64 `json:"player_size"`
		MoveSpeed          float64 `json:"move_speed"`
		ManaRegenPerSec    float64 `json:"mana_regen_per_sec"`
		ShotManaCost       float64 `json:"shot_mana_cost"`
		ProjectileSpeed    float64 `json:"projectile_speed"`
		FireCooldownMs     int64   `json:"fire_cooldown_ms"`
		RespawnMs          float64 `json:"respawn_ms"`
		BaseDamage         float64 `json:"base_damage"`
		VisionRadius       float64 `json:"vision_radius"`
		StartingCoins      int     `json:"starting_coins"`
		KillReward         int     `json:"kill_reward"`
		CoinDropLifetimeMs int64   `json:"coin_drop_lifetime_ms"`
	} `json:"gameplay"`
	Match struct {
		DurationMs        int64 `json:"duration_ms"`
		TerrainRotationMs int64 `json:"terrain_rotation_ms"`
		RematchDelayMs    int64 `json:"rematch_delay_ms"`
		LeaderboardSize   int   `json:"leaderboard_size"`
	} `json:"match"`
}

// DefaultConfig returns the shipped tuning values.
func DefaultConfig() *GameConfig {
	cfg := &GameConfig{}

	cfg.Server.TickRateHz = 60
	cfg.Server.MaxPlayers = 4

	cfg.Arena.Width = 2400
	cfg.Arena.Height = 1600
	cfg.Arena.ObstacleCount = 12
	cfg.Arena.ObstacleMinWidth = 40
	cfg.Arena.ObstacleMaxWidth = 100
	cfg.Arena.ObstacleMinHeight = 30
	cfg.Arena.ObstacleMaxHeight = 80
	cfg.Arena.ObstacleMargin = 200
	cfg.Arena.ObstacleSpacing = 200
	cfg.Arena.ShopCount = 1
	cfg.Arena.ShopMargin = 200
	cfg.Arena.ShopClearance = 250
	cfg.Arena.ShopRadius = 80
	cfg.Arena.SpawnMargin = 50
	cfg.Arena.SpawnAttempts = 200

	cfg.Gameplay.PlayerSize = 14
	cfg.Gameplay.MoveSpeed = 450
	cfg.Gameplay.ManaRegenPerSec = 20
	cfg.Gameplay.ShotManaCost = 25
	cfg.Gameplay.ProjectileSpeed = 520
	cfg.Gameplay.FireCooldownMs = 180
	cfg.Gameplay.RespawnMs = 60000
	cfg.Gameplay.BaseDamage = 10
	cfg.Gameplay.VisionRadius = 220
	cfg.Gameplay.StartingCoins = 50
	cfg.Gameplay.KillReward = 50
	cfg.Gameplay.CoinDropLifetimeMs = 30000

	cfg.Match.DurationMs = 600000
	cfg.Match.TerrainRotationMs = 120000
	cfg.Match.RematchDelayMs = 30000
	cfg.Match.LeaderboardSize = 10

	return cfg
}

// LoadConfig reads a JSON config file and clamps it to safe bounds.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ClampGameConfig(cfg)
	return cfg, nil
}

// TickInterval derives the ticker period from the configured rate.
func (cfg *GameConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(cfg.Server.TickRateHz)
}
