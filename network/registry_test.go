package network

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"pixeldown_server/logic"
)

// fakeConn is an in-memory room subscriber.
type fakeConn struct {
	id   string
	msgs chan []byte
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, msgs: make(chan []byte, 256)}
}

func (c *fakeConn) PlayerID() string { return c.id }

func (c *fakeConn) Enqueue(msg []byte) bool {
	select {
	case c.msgs <- msg:
		return true
	default:
		return false
	}
}

// waitForEvent drains the connection until a frame of the wanted type
// arrives, returning its payload.
func waitForEvent(t *testing.T, c *fakeConn, eventType string) json.RawMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case raw := <-c.msgs:
			var env struct {
				Type    string          `json:"type"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("bad frame %s: %v", raw, err)
			}
			if env.Type == eventType {
				return env.Payload
			}
		case <-deadline:
			t.Fatalf("no %q event within 2s", eventType)
		}
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

type fakeStore struct {
	coins map[string]int
	saved chan *logic.MatchResult
}

func (s *fakeStore) LoadCoins(userID string, fallback int) int {
	if c, ok := s.coins[userID]; ok {
		return c
	}
	return fallback
}

func (s *fakeStore) SaveMatchResult(roomID string, res *logic.MatchResult) {
	if s.saved != nil {
		s.saved <- res
	}
}

func newTestRegistry(t *testing.T, store ProfileStore) *Registry {
	t.Helper()
	reg := NewRegistry(logic.DefaultConfig(), store, zap.NewNop().Sugar())
	t.Cleanup(func() {
		reg.Close()
		for _, id := range roomIDs(reg) {
			reg.Delete(id)
		}
	})
	return reg
}

func roomIDs(reg *Registry) []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	return ids
}

func TestRoomCapacity(t *testing.T) {
	reg := newTestRegistry(t, nil)
	room := reg.GetOrCreate("room-1")

	for i := 0; i < reg.cfg.Server.MaxPlayers; i++ {
		conn := newFakeConn(fmt.Sprintf("p%d", i))
		out := room.Join(conn, "", "", 50)
		if !out.Success {
			t.Fatalf("join %d rejected: %s", i, out.Reason)
		}
		if out.PlayerCount != i+1 {
			t.Fatalf("player count = %d, want %d", out.PlayerCount, i+1)
		}
		// The joiner gets the current terrain immediately.
		waitForEvent(t, conn, EvtArenaData)
	}

	out := reg.GetOrCreate("room-1").Join(newFakeConn("p5"), "", "", 50)
	if out.Success || out.Reason != ReasonGameFull {
		t.Fatalf("fifth join = %+v, want %s rejection", out, ReasonGameFull)
	}
}

func TestFindJoinableSkipsFullRooms(t *testing.T) {
	reg := newTestRegistry(t, nil)
	full := reg.GetOrCreate("room-full")
	for i := 0; i < reg.cfg.Server.MaxPlayers; i++ {
		if out := full.Join(newFakeConn(fmt.Sprintf("p%d", i)), "", "", 50); !out.Success {
			t.Fatalf("setup join rejected: %s", out.Reason)
		}
	}

	other := reg.FindJoinable()
	if other.ID == full.ID {
		t.Fatal("FindJoinable returned a full room")
	}
	if reg.RoomCount() != 2 {
		t.Fatalf("room count = %d, want 2", reg.RoomCount())
	}

	// The fresh room has a slot, so a second call reuses it.
	if again := reg.FindJoinable(); again.ID != other.ID {
		t.Fatalf("FindJoinable created %s instead of reusing %s", again.ID, other.ID)
	}
}

func TestIdleRoomSwept(t *testing.T) {
	reg := newTestRegistry(t, nil)
	reg.FindJoinable() // matchmaking reply the client never follows up on

	waitFor(t, func() bool { return reg.RoomCount() == 0 }, "zero-player room still registered")
}

func TestSweepCancelsPendingRematch(t *testing.T) {
	reg := newTestRegistry(t, nil)
	room := reg.GetOrCreate("room-1")
	room.matchEnded.Store(true)
	room.timerMu.Lock()
	room.rematchTimer = time.AfterFunc(time.Hour, func() {})
	room.timerMu.Unlock()

	waitFor(t, func() bool {
		if reg.RoomCount() != 0 {
			return false
		}
		room.timerMu.Lock()
		defer room.timerMu.Unlock()
		return room.rematchTimer == nil
	}, "sweep left the room registered or its rematch timer armed")
}

func TestEmptyRoomReclaimed(t *testing.T) {
	reg := newTestRegistry(t, nil)
	room := reg.GetOrCreate("room-1")
	conn := newFakeConn("p1")
	if out := room.Join(conn, "", "", 50); !out.Success {
		t.Fatalf("join rejected: %s", out.Reason)
	}

	room.Leave("p1")

	waitFor(t, func() bool { return reg.RoomCount() == 0 }, "empty room was not reclaimed")
}

func TestJoinStoppedRoom(t *testing.T) {
	reg := newTestRegistry(t, nil)
	room := NewRoom("stopped", reg, zap.NewNop().Sugar())
	room.Stop()
	room.Stop() // idempotent

	out := room.Join(newFakeConn("p1"), "", "", 50)
	if out.Success || out.Reason != ReasonMatchEnded {
		t.Fatalf("join on a stopped room = %+v", out)
	}
}

func TestStartingCoins(t *testing.T) {
	store := &fakeStore{coins: map[string]int{"user-1": 275}}
	reg := newTestRegistry(t, store)

	if got := reg.StartingCoins("user-1"); got != 275 {
		t.Fatalf("coins = %d, want the stored 275", got)
	}
	if got := reg.StartingCoins("user-2"); got != reg.cfg.Gameplay.StartingCoins {
		t.Fatalf("coins = %d, want the default for an unknown user", got)
	}
	if got := reg.StartingCoins(""); got != reg.cfg.Gameplay.StartingCoins {
		t.Fatalf("coins = %d, want the default for an anonymous player", got)
	}
}

func TestFireRematchNotifiesAndRetires(t *testing.T) {
	reg := newTestRegistry(t, nil)
	old := reg.GetOrCreate("room-old")
	conn := newFakeConn("p1")
	if out := old.Join(conn, "", "", 50); !out.Success {
		t.Fatalf("join rejected: %s", out.Reason)
	}

	reg.fireRematch(old, "room-next")

	payload := waitForEvent(t, conn, EvtGameReady)
	var ready gameReadyPayload
	if err := json.Unmarshal(payload, &ready); err != nil {
		t.Fatal(err)
	}
	if ready.GameID != "room-next" {
		t.Fatalf("gameReady id = %q, want room-next", ready.GameID)
	}

	waitFor(t, func() bool {
		reg.mu.RLock()
		defer reg.mu.RUnlock()
		_, oldAlive := reg.rooms["room-old"]
		_, nextAlive := reg.rooms["room-next"]
		return !oldAlive && nextAlive
	}, "rematch did not retire the old room and register the next")
}

func TestMetricsSnapshot(t *testing.T) {
	reg := newTestRegistry(t, nil)
	room := reg.GetOrCreate("room-1")
	if out := room.Join(newFakeConn("p1"), "", "", 50); !out.Success {
		t.Fatalf("join rejected: %s", out.Reason)
	}

	snap := reg.MetricsSnapshot()
	if snap["room_count"] != 1 {
		t.Fatalf("room_count = %v, want 1", snap["room_count"])
	}
	rooms := snap["rooms"].(map[string]any)
	info := rooms["room-1"].(map[string]any)
	if info["players"] != 1 {
		t.Fatalf("players = %v, want 1", info["players"])
	}
}
