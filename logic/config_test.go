package logic

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigPassesClamps(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	before := *cfg
	ClampGameConfig(cfg)
	if *cfg != before {
		t.Fatalf("defaults were clamped: %+v vs %+v", before, *cfg)
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Fatalf("tick interval = %v, want %v", cfg.TickInterval(), time.Second/60)
	}
}

func TestClampGameConfigBounds(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Server.TickRateHz = 0
	cfg.Server.MaxPlayers = 100
	cfg.Arena.Width = -5
	cfg.Arena.ObstacleCount = 9999
	cfg.Arena.ObstacleMinWidth = 300
	cfg.Arena.ObstacleMaxWidth = 50 // below the minimum, must not invert
	cfg.Gameplay.MoveSpeed = math.NaN()
	cfg.Gameplay.BaseDamage = 1e9
	cfg.Match.DurationMs = 0
	cfg.Match.TerrainRotationMs = 1 << 40

	ClampGameConfig(cfg)

	if cfg.Server.TickRateHz != 5 {
		t.Errorf("tick rate = %d, want floor 5", cfg.Server.TickRateHz)
	}
	if cfg.Server.MaxPlayers != 16 {
		t.Errorf("max players = %d, want ceiling 16", cfg.Server.MaxPlayers)
	}
	if cfg.Arena.Width != 800 {
		t.Errorf("width = %f, want floor 800", cfg.Arena.Width)
	}
	if cfg.Arena.ObstacleCount != 64 {
		t.Errorf("obstacle count = %d, want ceiling 64", cfg.Arena.ObstacleCount)
	}
	if cfg.Arena.ObstacleMaxWidth < cfg.Arena.ObstacleMinWidth {
		t.Errorf("max width %f inverted below min width %f", cfg.Arena.ObstacleMaxWidth, cfg.Arena.ObstacleMinWidth)
	}
	if cfg.Gameplay.MoveSpeed != 10 {
		t.Errorf("NaN move speed = %f, want floor 10", cfg.Gameplay.MoveSpeed)
	}
	if cfg.Gameplay.BaseDamage != MaxHealth {
		t.Errorf("base damage = %f, want ceiling %f", cfg.Gameplay.BaseDamage, MaxHealth)
	}
	if cfg.Match.DurationMs != 30000 {
		t.Errorf("duration = %d, want floor 30000", cfg.Match.DurationMs)
	}
	if cfg.Match.TerrainRotationMs > cfg.Match.DurationMs {
		t.Errorf("rotation interval %d exceeds match duration %d", cfg.Match.TerrainRotationMs, cfg.Match.DurationMs)
	}
}

func TestClampGameConfigNil(t *testing.T) {
	t.Parallel()
	ClampGameConfig(nil) // must not panic
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "game_config.json")
	data := `{"server":{"tick_rate_hz":30},"match":{"duration_ms":120000}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.TickRateHz != 30 {
		t.Fatalf("tick rate = %d, want 30", cfg.Server.TickRateHz)
	}
	if cfg.Match.DurationMs != 120000 {
		t.Fatalf("duration = %d, want 120000", cfg.Match.DurationMs)
	}
	// Untouched sections keep their defaults.
	if cfg.Arena.Width != 2400 {
		t.Fatalf("width = %f, want default 2400", cfg.Arena.Width)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
