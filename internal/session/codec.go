// Package session converts conversation handles to and from the JSON blob the
// front-end carries between turns.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/capitalize-ai/datastore-webhooks/internal/model"
)

// ErrMissingName reports a session blob without a conversation name.
var ErrMissingName = errors.New("missing conversation name")

// DecodeError reports a malformed session blob.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "invalid session: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// blob is the decoded form of a session parameter. Timestamps are read as
// strings so that null, "" and a missing key all mean "not set".
type blob struct {
	Name         *string       `json:"name"`
	State        string        `json:"state"`
	UserPseudoID string        `json:"user_pseudo_id"`
	Messages     []blobMessage `json:"messages"`
	StartTime    string        `json:"start_time"`
	EndTime      string        `json:"end_time"`

	// Written by older adapters in place of start_time.
	StartDate string `json:"start_date"`
}

type blobMessage struct {
	UserInput  *model.TextInput `json:"user_input"`
	Reply      *model.Reply     `json:"reply"`
	CreateTime string           `json:"create_time"`
}

// Encode serializes h. Timestamps are written as RFC 3339 strings or null.
func Encode(h *model.ConversationHandle) (string, error) {
	if h == nil {
		return "", errors.New("nil conversation handle")
	}
	data, err := json.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	return string(data), nil
}

// Decode parses a blob produced by Encode.
func Decode(s string) (*model.ConversationHandle, error) {
	var b blob
	if err := json.Unmarshal([]byte(s), &b); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if b.Name == nil || *b.Name == "" {
		return nil, &DecodeError{Err: ErrMissingName}
	}

	h := &model.ConversationHandle{
		Name:         *b.Name,
		State:        b.State,
		UserPseudoID: b.UserPseudoID,
	}

	start := b.StartTime
	if start == "" {
		start = b.StartDate
	}
	var err error
	if h.StartTime, err = parseTime("start_time", start); err != nil {
		return nil, err
	}
	if h.EndTime, err = parseTime("end_time", b.EndTime); err != nil {
		return nil, err
	}

	if b.Messages != nil {
		h.Messages = make([]model.ConversationMessage, 0, len(b.Messages))
		for i, m := range b.Messages {
			created, err := parseTime(fmt.Sprintf("messages[%d].create_time", i), m.CreateTime)
			if err != nil {
				return nil, err
			}
			h.Messages = append(h.Messages, model.ConversationMessage{
				UserInput:  m.UserInput,
				Reply:      m.Reply,
				CreateTime: created,
			})
		}
	}

	return h, nil
}

// DecodeValue decodes a session parameter that arrived either as an encoded
// string or as an inline JSON object.
func DecodeValue(v any) (*model.ConversationHandle, error) {
	switch val := v.(type) {
	case string:
		return Decode(val)
	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		return Decode(string(data))
	default:
		return nil, &DecodeError{Err: fmt.Errorf("unsupported session type %T", v)}
	}
}

func parseTime(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%s: %w", field, err)}
	}
	return &t, nil
}
