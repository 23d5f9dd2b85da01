package model

import (
	"time"
)

// TurnEvent records the outcome of one webhook turn.
type TurnEvent struct {
	ID            string    `json:"id"`
	Route         Route     `json:"route"`
	Outcome       string    `json:"outcome"`
	Session       string    `json:"session,omitempty"`
	State         string    `json:"state,omitempty"`
	LatencyMs     int64     `json:"latency_ms"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
