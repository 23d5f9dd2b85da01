package model

import (
	"time"
)

// ConversationMessage is one entry of a conversation's message history. Exactly
// one of UserInput or Reply is set for messages produced by the backend.
type ConversationMessage struct {
	UserInput  *TextInput `json:"user_input,omitempty"`
	Reply      *Reply     `json:"reply,omitempty"`
	CreateTime *time.Time `json:"create_time"`
}

// TextInput is a user turn.
type TextInput struct {
	Input string `json:"input"`
}

// Reply is a backend turn.
type Reply struct {
	Reply       string `json:"reply"`
	SummaryText string `json:"summary_text,omitempty"`
}
