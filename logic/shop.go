package logic

import "time"

// BuffSpec describes one catalog entry. Multiplier is the movement,
// mana-regen, or damage factor; for shield it is the fraction of
// incoming damage removed.
type BuffSpec struct {
	Price      int
	Duration   time.Duration
	Multiplier float64
}

// BuffCatalog is the fixed set of purchasable buffs.
var BuffCatalog = map[string]BuffSpec{
	BuffSpeed:  {Price: 50, Duration: 15 * time.Second, Multiplier: 1.5},
	BuffMana:   {Price: 75, Duration: 20 * time.Second, Multiplier: 2},
	BuffPower:  {Price: 100, Duration: 15 * time.Second, Multiplier: 2},
	BuffShield: {Price: 60, Duration: 10 * time.Second, Multiplier: 0.25},
}

// BuyBuff debits the player and appends the buff with an absolute
// expiry. Buffs of the same type stack independently rather than
// refreshing. Unknown types and unaffordable purchases are no-ops.
// Proximity to a shop is not checked here; the client gates the buy
// button on it (see DESIGN.md).
func (a *Arena) BuyBuff(id, buffType string, now time.Time) (Buff, bool) {
	p, ok := a.Players[id]
	if !ok {
		return Buff{}, false
	}
	spec, ok := BuffCatalog[buffType]
	if !ok || p.Coins < spec.Price {
		return Buff{}, false
	}

	p.Coins -= spec.Price
	b := Buff{Type: buffType, ExpiresAt: now.Add(spec.Duration).UnixMilli()}
	p.Buffs = append(p.Buffs, b)
	return b, true
}

// WithinShop reports whether the position is inside any shop's
// interaction radius. Unused by the baseline purchase path but kept as
// the hook for server-side proximity enforcement.
func (a *Arena) WithinShop(pos Vector2) bool {
	for _, s := range a.Terrain.Shops {
		if Dist(pos, s.Center()) <= s.Radius {
			return true
		}
	}
	return false
}
