package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/capitalize-ai/datastore-webhooks/internal/model"
)

const (
	// StreamName is the name of the turn events stream.
	StreamName = "WEBHOOK_TURNS"

	// SubjectPrefix is the prefix for all turn event subjects.
	SubjectPrefix = "webhook"
)

// streamCreator is the part of jetstream.JetStream used to manage the stream.
type streamCreator interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// StreamConfig returns the configuration of the turn events stream.
func StreamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Webhook turn outcomes",
	}
}

// EnsureStream creates the turn events stream when it does not exist.
func EnsureStream(ctx context.Context, js streamCreator) error {
	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	if _, err := js.CreateStream(ctx, StreamConfig()); err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// Subject returns the subject a turn event is published on.
func Subject(route model.Route, outcome string) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, route, outcome)
}
