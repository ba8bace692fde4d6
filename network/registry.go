package network

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pixeldown_server/logic"
)

// The sweeper reclaims rooms that stay at zero players: a
// findRandomGame reply the client abandoned, or a rematch nobody
// attended. The grace window keeps a just-created room alive long
// enough for its first join to land; joinGame recreates swept rooms
// through GetOrCreate.
const (
	sweepInterval = 100 * time.Millisecond
	emptyGrace    = 150 * time.Millisecond
)

// ProfileStore is the external profile side channel. Read failures fall
// back to the default balance; write failures are logged by the store.
type ProfileStore interface {
	LoadCoins(userID string, fallback int) int
	SaveMatchResult(roomID string, res *logic.MatchResult)
}

// Registry owns the set of live rooms. Rooms are created on first join
// and reclaimed as soon as their last player leaves.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg   *logic.GameConfig
	store ProfileStore
	log   *zap.SugaredLogger

	quit      chan struct{}
	closeOnce sync.Once
}

// NewRegistry builds an empty registry and starts its background
// sweeper. store may be nil.
func NewRegistry(cfg *logic.GameConfig, store ProfileStore, log *zap.SugaredLogger) *Registry {
	reg := &Registry{
		rooms: make(map[string]*Room),
		cfg:   cfg,
		store: store,
		log:   log,
		quit:  make(chan struct{}),
	}
	go reg.sweepLoop()
	return reg
}

// Close stops the sweeper. Live rooms keep running until stopped
// individually.
func (reg *Registry) Close() {
	reg.closeOnce.Do(func() { close(reg.quit) })
}

func (reg *Registry) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-reg.quit:
			return
		case <-ticker.C:
			reg.sweepEmpty()
		}
	}
}

// sweepEmpty reclaims every room that has sat at zero players past the
// grace window. Stop cancels the room's pending rematch timer, so an
// abandoned match cannot schedule a ghost successor.
func (reg *Registry) sweepEmpty() {
	cutoff := time.Now().Add(-emptyGrace).UnixNano()
	var stale []*Room
	reg.mu.Lock()
	for id, r := range reg.rooms {
		if since := r.emptySince.Load(); since != 0 && since < cutoff {
			delete(reg.rooms, id)
			stale = append(stale, r)
		}
	}
	reg.mu.Unlock()
	for _, r := range stale {
		r.Stop()
		reg.log.Infow("empty room swept", "room", r.ID)
	}
}

// GetOrCreate returns the room for the given id, creating and starting
// it if needed.
func (reg *Registry) GetOrCreate(id string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok := reg.rooms[id]; ok {
		return r
	}
	return reg.createLocked(id)
}

// FindJoinable returns the first room with a free slot and a running
// match, creating a fresh one when none qualifies.
func (reg *Registry) FindJoinable() *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, r := range reg.rooms {
		if r.PlayerCount() < reg.cfg.Server.MaxPlayers && !r.MatchEnded() {
			return r
		}
	}
	return reg.createLocked(uuid.NewString())
}

// Delete stops a room, canceling any pending rematch timer first.
func (reg *Registry) Delete(id string) {
	reg.removeRoom(id)
}

// RoomCount returns the number of live rooms.
func (reg *Registry) RoomCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// StartingCoins resolves a joining player's balance from the profile
// store, falling back to the configured default.
func (reg *Registry) StartingCoins(userID string) int {
	fallback := reg.cfg.Gameplay.StartingCoins
	if userID == "" || reg.store == nil {
		return fallback
	}
	return reg.store.LoadCoins(userID, fallback)
}

// MetricsSnapshot aggregates per-room counters for the HTTP endpoint.
func (reg *Registry) MetricsSnapshot() map[string]any {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rooms := make(map[string]any, len(reg.rooms))
	for id, r := range reg.rooms {
		rooms[id] = map[string]any{
			"players": r.PlayerCount(),
			"ended":   r.MatchEnded(),
			"metrics": r.Metrics().Snapshot(),
		}
	}
	return map[string]any{
		"room_count": len(reg.rooms),
		"rooms":      rooms,
	}
}

func (reg *Registry) createLocked(id string) *Room {
	r := NewRoom(id, reg, reg.log)
	reg.rooms[id] = r
	go r.Run()
	reg.log.Infow("room created", "room", id)
	return r
}

func (reg *Registry) removeRoom(id string) {
	reg.mu.Lock()
	r, ok := reg.rooms[id]
	if ok {
		delete(reg.rooms, id)
	}
	reg.mu.Unlock()
	if ok {
		r.Stop()
		reg.log.Infow("room removed", "room", id)
	}
}

// fireRematch runs on the rematch timer goroutine: it registers the
// replacement session, then hands control back to the old room's loop
// so the gameReady notice goes out from the goroutine that owns the
// subscriber set.
func (reg *Registry) fireRematch(old *Room, nextID string) {
	reg.GetOrCreate(nextID)
	select {
	case old.inbox <- rematchFired{nextID: nextID}:
	case <-old.quit:
	}
}
