package network

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pixeldown_server/logic"
)

// Conn is the send half a room needs from a subscriber. Abstracted so
// tests can join fake connections.
type Conn interface {
	PlayerID() string
	Enqueue(msg []byte) bool
}

// JoinOutcome is the gateway-visible result of a join attempt.
type JoinOutcome struct {
	Success     bool
	Reason      string
	PlayerCount int
}

type joinRequest struct {
	conn   Conn
	name   string
	userID string
	coins  int
	reply  chan JoinOutcome
}

type moveCmd struct {
	playerID string
	forward  bool
	backward bool
	angle    float64
}

type shootCmd struct {
	playerID string
	origin   logic.Vector2
	angle    float64
}

type buyCmd struct {
	playerID string
	buffType string
}

type rematchFired struct {
	nextID string
}

// Room binds one Arena to its subscriber group. A single goroutine
// (Run) owns all arena state: inbound messages become commands drained
// by the select loop, so every mutation happens on the tick thread.
type Room struct {
	ID string

	arena    *logic.Arena
	clients  map[string]Conn
	registry *Registry
	metrics  *RoomMetrics
	log      *zap.SugaredLogger

	joinCh  chan *joinRequest
	leaveCh chan string
	inbox   chan any
	quit    chan struct{}

	stopOnce sync.Once

	timerMu      sync.Mutex
	rematchTimer *time.Timer

	// mirrors read by the registry without entering the loop
	playerCount atomic.Int32
	matchEnded  atomic.Bool

	// unix nanos since the room last had zero players; 0 while
	// occupied. The registry sweeper reclaims rooms that stay empty.
	emptySince atomic.Int64
}

// NewRoom creates a room with freshly generated terrain. The caller
// starts Run in its own goroutine.
func NewRoom(id string, reg *Registry, log *zap.SugaredLogger) *Room {
	r := &Room{
		ID:       id,
		arena:    logic.NewArena(id, reg.cfg, time.Now()),
		clients:  make(map[string]Conn),
		registry: reg,
		metrics:  &RoomMetrics{},
		log:      log,
		joinCh:   make(chan *joinRequest, 16),
		leaveCh:  make(chan string, 64),
		inbox:    make(chan any, 256),
		quit:     make(chan struct{}),
	}
	r.emptySince.Store(time.Now().UnixNano())
	return r
}

// PlayerCount is safe to call from any goroutine.
func (r *Room) PlayerCount() int { return int(r.playerCount.Load()) }

// MatchEnded is safe to call from any goroutine.
func (r *Room) MatchEnded() bool { return r.matchEnded.Load() }

// Metrics exposes the room's counters.
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// Join registers a connection and its player with the room. Blocks
// until the room goroutine decides; fails if the room is gone.
func (r *Room) Join(conn Conn, name, userID string, coins int) JoinOutcome {
	req := &joinRequest{conn: conn, name: name, userID: userID, coins: coins, reply: make(chan JoinOutcome, 1)}
	select {
	case r.joinCh <- req:
	case <-r.quit:
		return JoinOutcome{Success: false, Reason: ReasonMatchEnded}
	}
	select {
	case out := <-req.reply:
		return out
	case <-r.quit:
		return JoinOutcome{Success: false, Reason: ReasonMatchEnded}
	}
}

// Leave removes the player immediately rather than waiting for the
// next tick; the room goroutine services leaveCh between ticks.
func (r *Room) Leave(playerID string) {
	select {
	case r.leaveCh <- playerID:
	case <-r.quit:
	}
}

// Submit queues an intent command. Non-blocking: when the room is
// congested or gone the input is dropped, never the tick.
func (r *Room) Submit(cmd any) {
	select {
	case r.inbox <- cmd:
		r.metrics.IncAccepted()
	default:
		r.metrics.IncDropped()
	}
}

// Stop cancels the pending rematch timer and ends the loop. Idempotent.
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		r.timerMu.Lock()
		if r.rematchTimer != nil {
			r.rematchTimer.Stop()
			r.rematchTimer = nil
		}
		r.timerMu.Unlock()
		close(r.quit)
	})
}

// Run is the room's owner goroutine: drain commands, advance the
// simulation at the fixed cadence, publish snapshots.
func (r *Room) Run() {
	ticker := time.NewTicker(r.registry.cfg.TickInterval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-r.quit:
			return
		case req := <-r.joinCh:
			r.handleJoin(req)
		case playerID := <-r.leaveCh:
			r.handleLeave(playerID)
		case cmd := <-r.inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			start := time.Now()
			// Real elapsed time, not the nominal interval: a stalled
			// iteration must not desynchronize the clocks.
			dt := start.Sub(last).Seconds()
			last = start
			r.step(start, dt)
			r.metrics.AddTick(time.Since(start).Nanoseconds())
		}
	}
}

func (r *Room) handleJoin(req *joinRequest) {
	maxPlayers := r.registry.cfg.Server.MaxPlayers
	if r.arena.MatchEnded {
		req.reply <- JoinOutcome{Success: false, Reason: ReasonMatchEnded, PlayerCount: r.arena.PlayerCount()}
		return
	}

	// A re-sent joinGame for a session the player is already in only
	// refreshes the binding; it must not count against capacity.
	if p, ok := r.arena.Players[req.conn.PlayerID()]; ok {
		r.clients[p.ID] = req.conn
		r.sendArenaData(req.conn, p, maxPlayers)
		req.reply <- JoinOutcome{Success: true, PlayerCount: r.arena.PlayerCount()}
		return
	}

	if r.arena.PlayerCount() >= maxPlayers {
		req.reply <- JoinOutcome{Success: false, Reason: ReasonGameFull, PlayerCount: r.arena.PlayerCount()}
		return
	}

	p := r.arena.AddPlayer(req.conn.PlayerID(), req.userID, req.name, req.coins)
	r.clients[p.ID] = req.conn
	r.playerCount.Store(int32(r.arena.PlayerCount()))
	r.emptySince.Store(0)

	r.sendArenaData(req.conn, p, maxPlayers)
	r.log.Infow("player joined", "room", r.ID, "player", p.ID, "name", p.Name)
	req.reply <- JoinOutcome{Success: true, PlayerCount: r.arena.PlayerCount()}
}

func (r *Room) sendArenaData(conn Conn, p *logic.Player, maxPlayers int) {
	r.sendTo(conn, EvtArenaData, arenaDataPayload{
		Width:       r.registry.cfg.Arena.Width,
		Height:      r.registry.cfg.Arena.Height,
		Obstacles:   r.arena.Terrain.Obstacles,
		Shops:       r.arena.Terrain.Shops,
		PlayerName:  p.Name,
		PlayerColor: p.Color,
		RoomID:      r.ID,
		PlayerCount: r.arena.PlayerCount(),
		MaxPlayers:  maxPlayers,
	})
}

func (r *Room) handleLeave(playerID string) {
	if _, ok := r.clients[playerID]; !ok {
		return
	}
	delete(r.clients, playerID)
	r.arena.RemovePlayer(playerID)
	r.playerCount.Store(int32(r.arena.PlayerCount()))
	r.log.Infow("player left", "room", r.ID, "player", playerID)

	// A session with zero players is garbage; reclaim it now so a
	// pending rematch cannot resurrect an abandoned room. The registry
	// sweeper backstops rooms that never see a join at all.
	if r.arena.PlayerCount() == 0 {
		r.emptySince.Store(time.Now().UnixNano())
		r.registry.removeRoom(r.ID)
	}
}

func (r *Room) handleCommand(cmd any) {
	now := time.Now()
	switch c := cmd.(type) {
	case moveCmd:
		r.arena.SetMoveIntent(c.playerID, c.forward, c.backward, c.angle)
	case shootCmd:
		if !r.arena.Shoot(c.playerID, c.origin, c.angle, now) {
			r.metrics.IncShotRejected()
		}
	case buyCmd:
		buff, ok := r.arena.BuyBuff(c.playerID, c.buffType, now)
		if !ok {
			r.metrics.IncBuyRejected()
			return
		}
		if conn, ok := r.clients[c.playerID]; ok {
			r.sendTo(conn, EvtBuffPurchased, buffPurchasedPayload{BuffType: buff.Type, ExpiresAt: buff.ExpiresAt})
		}
	case rematchFired:
		r.broadcast(EvtGameReady, gameReadyPayload{GameID: c.nextID})
		r.log.Infow("rematch ready", "room", r.ID, "next", c.nextID)
		r.registry.removeRoom(r.ID)
	}
}

func (r *Room) step(now time.Time, dt float64) {
	if res, ended := r.arena.EvaluateMatchEnd(now); ended {
		r.finishMatch(res)
	}

	if r.arena.TerrainRotationDue(now) {
		r.arena.RotateTerrain(now)
		r.broadcast(EvtMapChanged, mapChangedPayload{
			Obstacles: r.arena.Terrain.Obstacles,
			Shops:     r.arena.Terrain.Shops,
		})
		r.log.Infow("terrain rotated", "room", r.ID)
	}

	events := r.arena.Tick(now, dt)
	for _, respawn := range events.Respawns {
		if conn, ok := r.clients[respawn.PlayerID]; ok {
			r.sendTo(conn, EvtRespawned, respawnedPayload{X: respawn.Pos.X, Y: respawn.Pos.Y})
		}
	}
	for _, kill := range events.Kills {
		r.broadcast(EvtPlayerKilled, playerKilledPayload{
			KilledID:   kill.KilledID,
			KilledName: kill.KilledName,
			KillerID:   kill.KillerID,
		})
	}

	r.broadcast(EvtGameState, r.arena.Snapshot(now))
}

func (r *Room) finishMatch(res *logic.MatchResult) {
	r.matchEnded.Store(true)
	nextID := uuid.NewString()

	var winner *matchWinner
	if res.HasWinner {
		winner = &matchWinner{Name: res.WinnerName, Kills: res.WinnerKills}
	}
	r.broadcast(EvtMatchEnded, matchEndedPayload{
		Winner:     winner,
		NextGameID: nextID,
		MatchData: matchDataPayload{
			WinnerID:        res.WinnerID,
			WinnerName:      res.WinnerName,
			DurationSeconds: res.DurationSeconds,
			PlayerResults:   res.Players,
		},
	})
	r.log.Infow("match ended", "room", r.ID, "winner", res.WinnerName, "next", nextID)

	// Best-effort side channel; never blocks the tick.
	if r.registry.store != nil {
		go r.registry.store.SaveMatchResult(r.ID, res)
	}

	r.timerMu.Lock()
	r.rematchTimer = time.AfterFunc(time.Duration(r.registry.cfg.Match.RematchDelayMs)*time.Millisecond, func() {
		r.registry.fireRematch(r, nextID)
	})
	r.timerMu.Unlock()
}

func (r *Room) sendTo(conn Conn, eventType string, payload any) {
	b := encodeEvent(eventType, payload)
	if b == nil {
		return
	}
	if !conn.Enqueue(b) {
		r.metrics.IncSendDropped()
	}
}

func (r *Room) broadcast(eventType string, payload any) {
	b := encodeEvent(eventType, payload)
	if b == nil {
		return
	}
	for _, conn := range r.clients {
		if !conn.Enqueue(b) {
			r.metrics.IncSendDropped()
		}
	}
}
