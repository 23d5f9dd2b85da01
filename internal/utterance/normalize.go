// Package utterance extracts and canonicalizes the user utterance carried by a
// webhook request.
package utterance

import (
	"errors"
	"strings"

	"github.com/capitalize-ai/datastore-webhooks/internal/model"
	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
)

// ErrNoUtterance reports a request without usable text.
var ErrNoUtterance = errors.New("no utterance in request")

// punctuation is the ASCII punctuation set.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalize returns the lower-cased, punctuation-free utterance of req. Text
// takes precedence over Transcript. The boolean is false when neither yields a
// non-empty query.
func Normalize(req *model.InboundRequest, log *logger.Logger) (string, bool) {
	if req == nil {
		return "", false
	}

	text := req.Text
	if text == "" {
		log.Warn("no plain text in request")
		text = req.Transcript
		if text == "" {
			log.Warn("no transcript in request")
			return "", false
		}
	}

	query := Clean(text)
	if query == "" {
		log.Warn("utterance empty after normalization")
		return "", false
	}
	return query, true
}

// Clean lower-cases s and strips every ASCII punctuation character.
func Clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x80 && strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, strings.ToLower(s))
}
