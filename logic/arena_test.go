package logic

import (
	"strings"
	"testing"
	"time"
)

func TestAddPlayerDefaults(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)

	p := a.AddPlayer("p1", "user-1", "", 50)

	if p.Name == "" {
		t.Fatal("player without a display name should get a generated one")
	}
	if p.Color == "" || !strings.HasPrefix(p.Color, "#") {
		t.Fatalf("color = %q, want a palette hex value", p.Color)
	}
	if p.Health != MaxHealth || p.Mana != MaxMana || !p.IsAlive {
		t.Fatalf("fresh player state: health=%f mana=%f alive=%v", p.Health, p.Mana, p.IsAlive)
	}
	if p.Coins != 50 {
		t.Fatalf("coins = %d, want 50", p.Coins)
	}
	if a.PlayerCount() != 1 {
		t.Fatalf("player count = %d", a.PlayerCount())
	}
}

func TestAddPlayerDuplicateID(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)

	first := a.AddPlayer("p1", "user-1", "one", 50)
	first.Kills = 3
	second := a.AddPlayer("p1", "user-2", "two", 999)

	if second != first {
		t.Fatal("duplicate id should return the existing player")
	}
	if second.Name != "one" || second.Coins != 50 || second.Kills != 3 {
		t.Fatalf("duplicate add mutated the player: %+v", second)
	}
	if a.PlayerCount() != 1 {
		t.Fatalf("player count = %d, want 1", a.PlayerCount())
	}
	if got := len(a.Snapshot(now).Players); got != 1 {
		t.Fatalf("snapshot lists player %d times, want 1", got)
	}

	a.RemovePlayer("p1")
	if len(a.joinOrder) != 0 {
		t.Fatalf("join order = %v after removal, want empty", a.joinOrder)
	}
}

func TestRemovePlayerPrunesJoinOrder(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)
	a.AddPlayer("p1", "", "one", 0)
	a.AddPlayer("p2", "", "two", 0)

	a.RemovePlayer("p1")
	a.RemovePlayer("p1") // second removal is a no-op

	if a.PlayerCount() != 1 {
		t.Fatalf("player count = %d, want 1", a.PlayerCount())
	}
	if len(a.joinOrder) != 1 || a.joinOrder[0] != "p2" {
		t.Fatalf("join order = %v, want [p2]", a.joinOrder)
	}
}

func TestShootDebitsManaAndSpawnsProjectile(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)
	p := addTestPlayer(a, "p1", Vector2{X: 1200, Y: 800})

	if !a.Shoot("p1", p.Pos, 0, now) {
		t.Fatal("shot with full mana should succeed")
	}
	if want := MaxMana - a.Config.Gameplay.ShotManaCost; p.Mana != want {
		t.Fatalf("mana = %f, want %f", p.Mana, want)
	}
	if len(a.Projectiles) != 1 {
		t.Fatalf("projectiles = %d, want 1", len(a.Projectiles))
	}
	for _, proj := range a.Projectiles {
		if proj.OwnerID != "p1" || proj.Damage != a.Config.Gameplay.BaseDamage {
			t.Fatalf("projectile %+v has wrong owner or damage", proj)
		}
		if proj.Vel.X != a.Config.Gameplay.ProjectileSpeed {
			t.Fatalf("velocity x = %f, want %f at angle 0", proj.Vel.X, a.Config.Gameplay.ProjectileSpeed)
		}
	}
}

func TestShootRejectedWithoutMana(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)
	p := addTestPlayer(a, "p1", Vector2{X: 1200, Y: 800})
	p.Mana = a.Config.Gameplay.ShotManaCost - 1

	if a.Shoot("p1", p.Pos, 0, now) {
		t.Fatal("shot below mana cost should be rejected")
	}
	if len(a.Projectiles) != 0 {
		t.Fatal("rejected shot spawned a projectile")
	}
}

func TestShootCooldown(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)
	p := addTestPlayer(a, "p1", Vector2{X: 1200, Y: 800})
	cooldown := time.Duration(a.Config.Gameplay.FireCooldownMs) * time.Millisecond

	if !a.Shoot("p1", p.Pos, 0, now) {
		t.Fatal("first shot should succeed")
	}
	if a.Shoot("p1", p.Pos, 0, now.Add(cooldown-time.Millisecond)) {
		t.Fatal("shot inside cooldown should be rejected")
	}
	if !a.Shoot("p1", p.Pos, 0, now.Add(cooldown)) {
		t.Fatal("shot exactly at cooldown should succeed")
	}
}

func TestShootRejectedWhenDead(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)
	p := addTestPlayer(a, "p1", Vector2{X: 1200, Y: 800})
	p.IsAlive = false

	if a.Shoot("p1", p.Pos, 0, now) {
		t.Fatal("dead player should not fire")
	}
}

func TestShootPowerBuffDoublesDamage(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)
	p := addTestPlayer(a, "p1", Vector2{X: 1200, Y: 800})
	p.Buffs = append(p.Buffs, buffUntil(BuffPower, now, time.Minute))

	a.Shoot("p1", p.Pos, 0, now)

	for _, proj := range a.Projectiles {
		if want := a.Config.Gameplay.BaseDamage * 2; proj.Damage != want {
			t.Fatalf("damage = %f, want %f with power buff", proj.Damage, want)
		}
	}
}

func TestBuyBuffDebitsAndStacks(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)
	p := addTestPlayer(a, "p1", Vector2{X: 1200, Y: 800})
	p.Coins = 120

	b, ok := a.BuyBuff("p1", BuffSpeed, now)
	if !ok {
		t.Fatal("affordable purchase rejected")
	}
	if b.Type != BuffSpeed {
		t.Fatalf("bought %q, want %q", b.Type, BuffSpeed)
	}
	if want := now.Add(BuffCatalog[BuffSpeed].Duration).UnixMilli(); b.ExpiresAt != want {
		t.Fatalf("expiry = %d, want %d", b.ExpiresAt, want)
	}
	if p.Coins != 70 {
		t.Fatalf("coins = %d, want 70 after a 50 coin buff", p.Coins)
	}

	// The same type stacks independently rather than refreshing.
	if _, ok := a.BuyBuff("p1", BuffSpeed, now.Add(time.Second)); !ok {
		t.Fatal("second purchase rejected")
	}
	if len(p.Buffs) != 2 {
		t.Fatalf("buffs = %d, want 2 stacked", len(p.Buffs))
	}
}

func TestBuyBuffRejections(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := newTestArena(now)
	p := addTestPlayer(a, "p1", Vector2{X: 1200, Y: 800})
	p.Coins = 10

	if _, ok := a.BuyBuff("p1", BuffSpeed, now); ok {
		t.Fatal("unaffordable purchase should fail")
	}
	if _, ok := a.BuyBuff("p1", "haste", now); ok {
		t.Fatal("unknown buff type should fail")
	}
	if _, ok := a.BuyBuff("ghost", BuffSpeed, now); ok {
		t.Fatal("purchase for a missing player should fail")
	}
	if p.Coins != 10 || len(p.Buffs) != 0 {
		t.Fatalf("failed purchases mutated the player: coins=%d buffs=%d", p.Coins, len(p.Buffs))
	}
}

func TestNewUIDUnique(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewUID("coin")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
