package network

import (
	"encoding/json"

	"pixeldown_server/logic"
)

// Inbound message types (client -> server)
const (
	MsgJoinGame       = "joinGame"
	MsgFindRandomGame = "findRandomGame"
	MsgMove           = "move"
	MsgShoot          = "shoot"
	MsgBuyBuff        = "buyBuff"
	MsgPing           = "ping"
)

// Outbound event types (server -> client)
const (
	EvtJoinResult       = "joinResult"
	EvtRandomGameResult = "randomGameResult"
	EvtArenaData        = "arenaData"
	EvtGameState        = "gameState"
	EvtPlayerKilled     = "playerKilled"
	EvtMapChanged       = "mapChanged"
	EvtRespawned        = "respawned"
	EvtBuffPurchased    = "buffPurchased"
	EvtMatchEnded       = "matchEnded"
	EvtGameReady        = "gameReady"
	EvtPong             = "pong"
)

// Join rejection reasons
const (
	ReasonGameFull   = "game_full"
	ReasonMatchEnded = "match_ended"
)

// clientEnvelope wraps every inbound frame; payload decoding is
// deferred until the type is known.
type clientEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// serverEnvelope wraps every outbound frame.
type serverEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// encodeEvent marshals an outbound frame; a payload that cannot
// marshal is a programming error and yields nil, which senders skip.
func encodeEvent(eventType string, payload any) []byte {
	b, err := json.Marshal(serverEnvelope{Type: eventType, Payload: payload})
	if err != nil {
		return nil
	}
	return b
}

type joinGamePayload struct {
	RoomID      string `json:"roomId"`
	DisplayName string `json:"displayName"`
	UserID      string `json:"userId"`
}

type movePayload struct {
	Forward  bool    `json:"forward"`
	Backward bool    `json:"backward"`
	Angle    float64 `json:"angle"`
}

type shootPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

type buyBuffPayload struct {
	BuffType string `json:"buffType"`
}

type joinResultPayload struct {
	Success     bool   `json:"success"`
	RoomID      string `json:"roomId"`
	Reason      string `json:"reason,omitempty"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
}

type randomGameResultPayload struct {
	RoomID      string `json:"roomId"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
}

type arenaDataPayload struct {
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Obstacles   []logic.Obstacle `json:"obstacles"`
	Shops       []logic.Shop     `json:"shops"`
	PlayerName  string           `json:"playerName"`
	PlayerColor string           `json:"playerColor"`
	RoomID      string           `json:"roomId"`
	PlayerCount int              `json:"playerCount"`
	MaxPlayers  int              `json:"maxPlayers"`
}

type playerKilledPayload struct {
	KilledID   string `json:"killedId"`
	KilledName string `json:"killedName"`
	KillerID   string `json:"killerId"`
}

type mapChangedPayload struct {
	Obstacles []logic.Obstacle `json:"obstacles"`
	Shops     []logic.Shop     `json:"shops"`
}

type respawnedPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type buffPurchasedPayload struct {
	BuffType  string `json:"buffType"`
	ExpiresAt int64  `json:"expiresAt"`
}

type matchWinner struct {
	Name  string `json:"name"`
	Kills int    `json:"kills"`
}

type matchDataPayload struct {
	WinnerID        string               `json:"winnerId"`
	WinnerName      string               `json:"winnerName"`
	DurationSeconds int                  `json:"durationSeconds"`
	PlayerResults   []logic.PlayerResult `json:"playerResults"`
}

type matchEndedPayload struct {
	Winner     *matchWinner     `json:"winner"`
	NextGameID string           `json:"nextGameId"`
	MatchData  matchDataPayload `json:"matchData"`
}

type gameReadyPayload struct {
	GameID string `json:"gameId"`
}
