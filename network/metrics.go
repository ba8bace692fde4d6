package network

import "sync/atomic"

// RoomMetrics tracks per-room runtime counters for monitoring.
// All fields are updated atomically so the HTTP metrics handler can
// read them without touching the room goroutine.
type RoomMetrics struct {
	TickCount      int64
	TotalTickNs    int64
	InputsAccepted int64
	InputsDropped  int64
	ShotsRejected  int64
	BuysRejected   int64
	SendsDropped   int64
}

func (m *RoomMetrics) IncAccepted()     { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncDropped()      { atomic.AddInt64(&m.InputsDropped, 1) }
func (m *RoomMetrics) IncShotRejected() { atomic.AddInt64(&m.ShotsRejected, 1) }
func (m *RoomMetrics) IncBuyRejected()  { atomic.AddInt64(&m.BuysRejected, 1) }
func (m *RoomMetrics) IncSendDropped()  { atomic.AddInt64(&m.SendsDropped, 1) }

func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot returns a read-only copy for HTTP output.
func (m *RoomMetrics) Snapshot() map[string]any {
	ticks := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return map[string]any{
		"tick_count":      ticks,
		"inputs_accepted": atomic.LoadInt64(&m.InputsAccepted),
		"inputs_dropped":  atomic.LoadInt64(&m.InputsDropped),
		"shots_rejected":  atomic.LoadInt64(&m.ShotsRejected),
		"buys_rejected":   atomic.LoadInt64(&m.BuysRejected),
		"sends_dropped":   atomic.LoadInt64(&m.SendsDropped),
		"avg_tick_ms":     avgMs,
	}
}
