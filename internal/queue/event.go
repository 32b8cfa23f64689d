// Package queue defines message payloads exchanged over the message broker.
package queue

// GameFinishedEvent is published whenever a game reaches a terminal state:
// the fox escaped, or an accusation decided the outcome.  Downstream
// consumers can log or feed analytics without touching the database.
type GameFinishedEvent struct {
	EventID    string `json:"event_id"`
	GameID     uint64 `json:"game_id"`
	Result     string `json:"result"` // win | lose
	Reason     string `json:"reason"` // accusation | fox_escaped
	FinishedAt string `json:"finished_at"`
}
