package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/capitalize-ai/datastore-webhooks/internal/model"
	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func TestAuth(t *testing.T) {
	valid := signToken(t, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "agent-runtime",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Agent: "support-bot",
	})
	expired := signToken(t, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "agent-runtime",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	wrongKey := signToken(t, "other", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCaller string
	}{
		{"valid", "Bearer " + valid, http.StatusOK, "agent-runtime"},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, "agent-runtime"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, ""},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var caller string
			h := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				caller = GetCaller(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/answer", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if caller != tt.wantCaller {
				t.Errorf("caller = %q, want %q", caller, tt.wantCaller)
			}
		})
	}
}

func TestAuth_DisabledWithoutSecret(t *testing.T) {
	called := false
	h := Auth("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", nil))

	if !called || rec.Code != http.StatusOK {
		t.Errorf("called = %v, status = %d", called, rec.Code)
	}
}

func TestLogging_CorrelationID(t *testing.T) {
	var seen string
	h := Logging(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationID(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	t.Run("propagates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(CorrelationHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if seen != "abc-123" {
			t.Errorf("context correlation id = %q", seen)
		}
		if got := rec.Header().Get(CorrelationHeader); got != "abc-123" {
			t.Errorf("response header = %q", got)
		}
		if rec.Code != http.StatusAccepted {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("generates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if seen == "" || rec.Header().Get(CorrelationHeader) != seen {
			t.Errorf("generated id = %q, header = %q", seen, rec.Header().Get(CorrelationHeader))
		}
	})
}

func TestLogging_AuthenticatedCaller(t *testing.T) {
	token := signToken(t, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "agent-runtime",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Agent: "support-bot",
	})

	core, logs := observer.New(zapcore.InfoLevel)
	inner := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h := Logging(&logger.Logger{Logger: zap.New(core)})(inner)

	req := httptest.NewRequest(http.MethodPost, "/answer", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d request logs, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["caller"] != "agent-runtime" || fields["agent"] != "support-bot" {
		t.Errorf("fields = %v", fields)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/search", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do("10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	rec := do("10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
	if rec := do("10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Errorf("other client status = %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing frame options")
	}
}

func TestValidateInbound(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.InboundRequest
		wantErr error
	}{
		{"empty", &model.InboundRequest{}, nil},
		{"text", &model.InboundRequest{Text: "hello"}, nil},
		{"long text", &model.InboundRequest{Text: strings.Repeat("a", MaxUtteranceLength+1)}, errUtteranceTooLong},
		{"long transcript", &model.InboundRequest{Transcript: strings.Repeat("a", MaxUtteranceLength+1)}, errUtteranceTooLong},
		{"invalid utf8", &model.InboundRequest{Text: "\xff\xfe"}, errUtteranceUTF8},
		{
			"long session",
			&model.InboundRequest{Parameters: map[string]any{model.SessionParameter: strings.Repeat("a", MaxSessionLength+1)}},
			errSessionTooLong,
		},
		{
			"object session",
			&model.InboundRequest{Parameters: map[string]any{model.SessionParameter: map[string]any{"name": "x"}}},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateInbound(tt.req); err != tt.wantErr {
				t.Errorf("ValidateInbound() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
