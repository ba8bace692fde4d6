package storage

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"pixeldown_server/logic"
)

const schema = `
CREATE TABLE IF NOT EXISTS player_stats (
	user_id       TEXT PRIMARY KEY,
	coins         INTEGER DEFAULT 0,
	total_kills   INTEGER DEFAULT 0,
	total_matches INTEGER DEFAULT 0,
	updated_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS matches (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id          TEXT,
	winner_user_id   TEXT,
	winner_name      TEXT,
	duration_seconds INTEGER,
	ended_at         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS match_players (
	match_id     INTEGER,
	user_id      TEXT,
	username     TEXT,
	kills        INTEGER,
	coins_earned INTEGER
);
`

// Store is the external profile side channel. The simulation never
// depends on it: reads fall back to defaults, writes are fire-and-forget.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// Open creates or opens the sqlite database and ensures the schema.
func Open(path string, log *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

// Close releases the database handle.
func (s *Store) Close() {
	if s != nil && s.db != nil {
		_ = s.db.Close()
	}
}

// LoadCoins returns the stored balance for a profile, or fallback when
// the profile is unknown or the store is unavailable.
func (s *Store) LoadCoins(userID string, fallback int) int {
	if s == nil || s.db == nil {
		return fallback
	}
	var coins int
	err := s.db.QueryRow("SELECT coins FROM player_stats WHERE user_id = ?", userID).Scan(&coins)
	if err != nil {
		if err != sql.ErrNoRows {
			s.log.Warnw("load coins failed", "user", userID, "err", err)
		}
		return fallback
	}
	return coins
}

// SaveMatchResult appends the match record and read-modify-writes each
// participant's aggregate stats. Failures are logged; the in-memory
// economy has already moved on.
func (s *Store) SaveMatchResult(roomID string, res *logic.MatchResult) {
	if s == nil || s.db == nil || res == nil {
		return
	}

	r, err := s.db.Exec(
		"INSERT INTO matches (game_id, winner_user_id, winner_name, duration_seconds) VALUES (?, ?, ?, ?)",
		roomID, res.WinnerID, res.WinnerName, res.DurationSeconds,
	)
	if err != nil {
		s.log.Warnw("save match failed", "room", roomID, "err", err)
		return
	}
	matchID, _ := r.LastInsertId()

	for _, p := range res.Players {
		if _, err := s.db.Exec(
			"INSERT INTO match_players (match_id, user_id, username, kills, coins_earned) VALUES (?, ?, ?, ?, ?)",
			matchID, p.UserID, p.Username, p.Kills, p.CoinsEarned,
		); err != nil {
			s.log.Warnw("save match player failed", "user", p.UserID, "err", err)
		}

		if _, err := s.db.Exec(`
			INSERT INTO player_stats (user_id, coins, total_kills, total_matches, updated_at)
			VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
			ON CONFLICT(user_id) DO UPDATE SET
				coins = coins + excluded.coins,
				total_kills = total_kills + excluded.total_kills,
				total_matches = total_matches + 1,
				updated_at = CURRENT_TIMESTAMP`,
			p.UserID, p.CoinsEarned, p.Kills,
		); err != nil {
			s.log.Warnw("update player stats failed", "user", p.UserID, "err", err)
		}
	}
}
