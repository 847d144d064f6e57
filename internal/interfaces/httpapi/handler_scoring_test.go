package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/statline/gridiron/internal/domain/user"
	"github.com/statline/gridiron/internal/usecase"
)

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(_ context.Context, _ string) (user.Principal, error) {
	return user.Principal{UserID: "user-1"}, nil
}

func newScoringTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(
		usecase.NewScoringService(nil),
		nil, nil, nil, nil, nil, nil, nil, nil, nil,
		logger,
	)

	return NewRouter(handler, stubVerifier{}, logger, []string{"*"}, nil, "job-token")
}

func postJSON(t *testing.T, router http.Handler, path, payload string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return rec, body
}

func TestCalculatePoints_Single(t *testing.T) {
	router := newScoringTestRouter(t)

	rec, body := postJSON(t, router, "/v1/points/calculate", `{
		"stats": {"passing_yards": 250, "passing_tds": 2, "passing_interceptions": 1}
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if got, _ := data["total_points"].(float64); got != 20 {
		t.Fatalf("expected total_points=20, got %v", data["total_points"])
	}
}

func TestCalculatePoints_Batch(t *testing.T) {
	router := newScoringTestRouter(t)

	rec, body := postJSON(t, router, "/v1/points/calculate", `{
		"players": [
			{"player_id": "p1", "stats": {"receptions": 4, "receiving_yards": 60}},
			{"player_id": "p2", "stats": {"rushing_yards": 110, "rushing_tds": 1}}
		],
		"scoring_settings": {"format": "ppr"}
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	results, ok := data["results"].([]any)
	if !ok || len(results) != 2 {
		t.Fatalf("expected 2 results, got %v", data["results"])
	}
	first, _ := results[0].(map[string]any)
	if got, _ := first["player_id"].(string); got != "p1" {
		t.Fatalf("expected first result for p1, got %v", first["player_id"])
	}
	points, _ := first["points"].(map[string]any)
	if got, _ := points["total_points"].(float64); got != 10 {
		t.Fatalf("expected p1 total_points=10, got %v", points["total_points"])
	}
}

func TestCalculatePoints_RequiresExactlyOneMode(t *testing.T) {
	router := newScoringTestRouter(t)

	rec, _ := postJSON(t, router, "/v1/points/calculate", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty payload, got %d", rec.Code)
	}

	rec, _ = postJSON(t, router, "/v1/points/calculate", `{
		"stats": {"passing_yards": 100},
		"players": [{"player_id": "p1", "stats": {}}]
	}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for ambiguous payload, got %d", rec.Code)
	}
}
