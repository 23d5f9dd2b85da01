// Package model defines data structures for the webhook adapters.
package model

import (
	"time"
)

// Conversation lifecycle states reported by the backend.
const (
	ConversationStateUnspecified = "STATE_UNSPECIFIED"
	ConversationStateInProgress  = "IN_PROGRESS"
	ConversationStateCompleted   = "COMPLETED"
)

// ConversationHandle is the JSON-safe form of a backend conversation. It is
// created by the backend on the first turn and round-tripped by the caller.
type ConversationHandle struct {
	Name         string                `json:"name"`
	State        string                `json:"state"`
	UserPseudoID string                `json:"user_pseudo_id"`
	Messages     []ConversationMessage `json:"messages"`
	StartTime    *time.Time            `json:"start_time"`
	EndTime      *time.Time            `json:"end_time"`
}

// ConversationResult is the normalized result of a conversation turn.
type ConversationResult struct {
	ReplyText   string `json:"reply"`
	SummaryText string `json:"summary"`
	SessionJSON string `json:"session"`
	State       string `json:"state"`

	// Name is the conversation resource name carried inside SessionJSON.
	Name string `json:"name"`
}
