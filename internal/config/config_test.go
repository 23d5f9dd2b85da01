package config

import (
	"errors"
	"testing"
	"time"
)

const testDataStore = "projects/p1/locations/global/collections/default_collection/dataStores/ds1"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATASTORE_ID", testDataStore)

	cfg := Load()
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.DiscoveryAPIVersion != "v1beta" {
		t.Errorf("DiscoveryAPIVersion = %q, want v1beta", cfg.DiscoveryAPIVersion)
	}
	if cfg.SearchMaxResults != 1 {
		t.Errorf("SearchMaxResults = %d, want 1", cfg.SearchMaxResults)
	}
	if !cfg.AnswerRelated {
		t.Error("AnswerRelated = false, want true")
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want 1m", cfg.RateLimitWindow)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadLegacyDataStoreVariable(t *testing.T) {
	t.Setenv("DATASTORE_ID", "")
	t.Setenv("datastore_id", testDataStore)

	if got := Load().DataStoreID; got != testDataStore {
		t.Errorf("DataStoreID = %q, want %q", got, testDataStore)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATASTORE_ID", testDataStore)
	t.Setenv("SEARCH_MAX_RESULTS", "5")
	t.Setenv("ANSWER_RELATED_QUESTIONS", "false")
	t.Setenv("DISCOVERY_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_REQUESTS", "not-a-number")

	cfg := Load()
	if cfg.SearchMaxResults != 5 {
		t.Errorf("SearchMaxResults = %d, want 5", cfg.SearchMaxResults)
	}
	if cfg.AnswerRelated {
		t.Error("AnswerRelated = true, want false")
	}
	if cfg.DiscoveryTimeout != 5*time.Second {
		t.Errorf("DiscoveryTimeout = %v, want 5s", cfg.DiscoveryTimeout)
	}
	if cfg.RateLimitRequests != 120 {
		t.Errorf("RateLimitRequests = %d, want default 120", cfg.RateLimitRequests)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		is      error
	}{
		{name: "missing", cfg: Config{SearchMaxResults: 1}, wantErr: true, is: ErrMissingDataStore},
		{name: "malformed", cfg: Config{DataStoreID: "projects/p1/dataStores/ds1", SearchMaxResults: 1}, wantErr: true},
		{name: "zero max results", cfg: Config{DataStoreID: testDataStore}, wantErr: true},
		{name: "ok", cfg: Config{DataStoreID: testDataStore, SearchMaxResults: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Validate() error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestDataStoreLocation(t *testing.T) {
	loc, err := DataStoreLocation("projects/p/locations/eu/collections/c/dataStores/d")
	if err != nil {
		t.Fatalf("DataStoreLocation() error = %v", err)
	}
	if loc != "eu" {
		t.Errorf("DataStoreLocation() = %q, want eu", loc)
	}
}
