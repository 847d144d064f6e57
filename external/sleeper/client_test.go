package sleeper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/statline/gridiron/internal/platform/logging"
	"github.com/statline/gridiron/internal/platform/resilience"
	"github.com/statline/gridiron/internal/usecase"
)

func TestClient_FetchPlayers_MapsPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/players/nfl" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"4046": {"player_id":"4046","full_name":"Patrick Mahomes","position":"QB","team":"KC","active":true,"status":"Active","espn_id":3139477},
			"KC": {"player_id":"KC","position":"DEF","team":"KC","active":true}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)

	players, err := client.FetchPlayers(context.Background())
	if err != nil {
		t.Fatalf("FetchPlayers error: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got=%d", len(players))
	}

	byID := make(map[string]usecase.ExternalPlayer, len(players))
	for _, p := range players {
		byID[p.ExternalID] = p
	}

	mahomes := byID["4046"]
	if mahomes.Name != "Patrick Mahomes" || mahomes.Position != "QB" || mahomes.Team != "KC" {
		t.Fatalf("unexpected player mapping: %+v", mahomes)
	}
	if mahomes.EspnID != "3139477" {
		t.Fatalf("numeric espn_id should stringify, got=%q", mahomes.EspnID)
	}
	if byID["KC"].Name != "KC D/ST" {
		t.Fatalf("team defenses need a synthesized name, got=%q", byID["KC"].Name)
	}
}

func TestClient_FetchWeeklyStats_MapsStatCodes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/stats/nfl/regular/2025/3" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"4046": {"pass_yd": 250, "pass_td": 2, "pass_int": 1},
			"6786": {"rec_yd": 110, "rec_td": 1, "rec": 9, "fum_lost": 1}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)

	lines, err := client.FetchWeeklyStats(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("FetchWeeklyStats error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got=%d", len(lines))
	}

	byID := make(map[string]usecase.ExternalWeeklyStat, len(lines))
	for _, line := range lines {
		byID[line.PlayerExternalID] = line
	}

	qb := byID["4046"]
	if qb.PassingYards != 250 || qb.PassingTDs != 2 || qb.Interceptions != 1 {
		t.Fatalf("unexpected qb line: %+v", qb)
	}
	wr := byID["6786"]
	if wr.ReceivingYards != 110 || wr.Receptions != 9 || wr.FumblesLost != 1 {
		t.Fatalf("unexpected wr line: %+v", wr)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"season":"2025"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 1)

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping should succeed after a retry: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got=%d", attempts)
	}
}

func TestClient_ClientErrorDoesNotRetry(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)

	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected an error for 404")
	}
	if attempts != 1 {
		t.Fatalf("4xx must not retry, got=%d attempts", attempts)
	}
}

func TestClient_OpenCircuitRejectsRequests(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Logger:  logging.NewNop(),
		Timeout: time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("first call should fail against a 500")
	}
	err := client.Ping(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("open breaker should map to ErrDependencyUnavailable, got=%v", err)
	}
}

func newTestClient(baseURL string, retries int) *Client {
	return NewClient(ClientConfig{
		BaseURL:    baseURL,
		MaxRetries: retries,
		Timeout:    time.Second,
		Logger:     logging.NewNop(),
	})
}
