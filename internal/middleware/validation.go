package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/capitalize-ai/datastore-webhooks/internal/model"
)

const (
	// MaxUtteranceLength bounds the text and transcript fields.
	MaxUtteranceLength = 10000
	// MaxSessionLength bounds a string session parameter.
	MaxSessionLength = 1 << 20
)

var (
	errUtteranceTooLong = errors.New("utterance exceeds maximum length")
	errUtteranceUTF8    = errors.New("utterance must be valid UTF-8")
	errSessionTooLong   = errors.New("session exceeds maximum length")
)

// ValidateInbound checks an inbound webhook request at the boundary. Missing
// utterances are accepted here and reported by the route controllers.
func ValidateInbound(req *model.InboundRequest) error {
	for _, s := range []string{req.Text, req.Transcript} {
		if len(s) > MaxUtteranceLength {
			return errUtteranceTooLong
		}
		if !utf8.ValidString(s) {
			return errUtteranceUTF8
		}
	}
	if v, ok := req.Session(); ok {
		if s, isString := v.(string); isString && len(s) > MaxSessionLength {
			return errSessionTooLong
		}
	}
	return nil
}
