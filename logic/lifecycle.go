package logic

import "time"

// PlayerResult is one row of the per-match results written to the
// profile store and broadcast in matchEnded.
type PlayerResult struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Kills       int    `json:"kills"`
	CoinsEarned int    `json:"coinsEarned"`
}

// MatchResult summarizes a finished match.
type MatchResult struct {
	WinnerID        string
	WinnerName      string
	WinnerKills     int
	HasWinner       bool
	DurationSeconds int
	Players         []PlayerResult
}

// Elapsed returns match time since session start.
func (a *Arena) Elapsed(now time.Time) time.Duration {
	return now.Sub(a.StartTime)
}

// EvaluateMatchEnd transitions the session to Ended exactly once, after
// the configured match duration. Winner is the first-seen player with
// the most kills; nil winner when the session is empty.
func (a *Arena) EvaluateMatchEnd(now time.Time) (*MatchResult, bool) {
	elapsed := a.Elapsed(now)
	if a.MatchEnded || elapsed.Milliseconds() <= a.Config.Match.DurationMs {
		return nil, false
	}
	a.MatchEnded = true

	res := &MatchResult{
		DurationSeconds: int(elapsed.Seconds()),
	}

	var winner *Player
	for _, id := range a.joinOrder {
		p, ok := a.Players[id]
		if !ok {
			continue
		}
		if winner == nil || p.Kills > winner.Kills {
			winner = p
		}
		userID := p.UserID
		if userID == "" {
			userID = p.ID
		}
		res.Players = append(res.Players, PlayerResult{
			UserID:   userID,
			Username: p.Name,
			Kills:    p.Kills,
			// Net coins this match relative to the starting balance.
			CoinsEarned: p.Coins - a.Config.Gameplay.StartingCoins,
		})
	}
	if winner != nil {
		res.HasWinner = true
		res.WinnerName = winner.Name
		res.WinnerKills = winner.Kills
		res.WinnerID = winner.UserID
		if res.WinnerID == "" {
			res.WinnerID = winner.ID
		}
	}
	return res, true
}

// TerrainRotationDue reports whether the periodic rotation interval has
// elapsed. Rotation fires regardless of match end state.
func (a *Arena) TerrainRotationDue(now time.Time) bool {
	return now.Sub(a.LastTerrainChange).Milliseconds() > a.Config.Match.TerrainRotationMs
}

// RotateTerrain replaces obstacles and shops atomically with a fresh
// layout. Players standing inside a new obstacle are not relocated;
// their next accepted move resolves it.
func (a *Arena) RotateTerrain(now time.Time) {
	a.Terrain = GenerateTerrain(a.Config)
	a.LastTerrainChange = now
}
