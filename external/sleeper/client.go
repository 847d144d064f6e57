package sleeper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/statline/gridiron/internal/platform/logging"
	"github.com/statline/gridiron/internal/platform/resilience"
	"github.com/statline/gridiron/internal/usecase"
)

const defaultBaseURL = "https://api.sleeper.app"

var errSleeperTransient = crerr.New("sleeper transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the Sleeper public API. Sleeper requires no
// authentication; rate limiting is the only budget to respect, which
// the circuit breaker and singleflight keep in check.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type sleeperPlayer struct {
	PlayerID     string   `json:"player_id"`
	FullName     string   `json:"full_name"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Position     string   `json:"position"`
	Team         string   `json:"team"`
	Active       bool     `json:"active"`
	Status       string   `json:"status"`
	InjuryStatus string   `json:"injury_status"`
	YearsExp     int      `json:"years_exp"`
	FantasyPos   []string `json:"fantasy_positions"`
	EspnID       any      `json:"espn_id"`
}

// FetchPlayers pulls the full NFL player dump. The payload is one big
// object keyed by player id, several megabytes at rest.
func (c *Client) FetchPlayers(ctx context.Context) ([]usecase.ExternalPlayer, error) {
	var payload map[string]sleeperPlayer
	if err := c.doJSON(ctx, "/v1/players/nfl", &payload); err != nil {
		return nil, fmt.Errorf("fetch sleeper players: %w", err)
	}

	players := make([]usecase.ExternalPlayer, 0, len(payload))
	for playerID, item := range payload {
		if item.PlayerID == "" {
			item.PlayerID = playerID
		}

		name := item.FullName
		if name == "" {
			name = strings.TrimSpace(item.FirstName + " " + item.LastName)
		}
		// Team defenses come through with the team code as the id and
		// no full_name.
		if name == "" && item.Position == "DEF" {
			name = item.PlayerID + " D/ST"
		}

		metadata := map[string]any{}
		if item.Status != "" {
			metadata["status"] = item.Status
		}
		if item.InjuryStatus != "" {
			metadata["injury_status"] = item.InjuryStatus
		}
		if item.YearsExp > 0 {
			metadata["years_exp"] = item.YearsExp
		}

		players = append(players, usecase.ExternalPlayer{
			ExternalID: item.PlayerID,
			Name:       name,
			Position:   item.Position,
			Team:       item.Team,
			Active:     item.Active,
			EspnID:     stringifyID(item.EspnID),
			Metadata:   metadata,
		})
	}

	return players, nil
}

// Sleeper stat dumps are maps of stat code to value per player.
var statCodes = struct {
	passYd, passTd, passInt string
	rushYd, rushTd          string
	recYd, recTd, rec       string
	fumLost                 string
}{
	passYd: "pass_yd", passTd: "pass_td", passInt: "pass_int",
	rushYd: "rush_yd", rushTd: "rush_td",
	recYd: "rec_yd", recTd: "rec_td", rec: "rec",
	fumLost: "fum_lost",
}

// FetchWeeklyStats pulls one regular-season week of raw stat lines.
func (c *Client) FetchWeeklyStats(ctx context.Context, season, week int) ([]usecase.ExternalWeeklyStat, error) {
	path := fmt.Sprintf("/v1/stats/nfl/regular/%d/%d", season, week)

	var payload map[string]map[string]float64
	if err := c.doJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("fetch sleeper stats %d/%d: %w", season, week, err)
	}

	lines := make([]usecase.ExternalWeeklyStat, 0, len(payload))
	for playerID, codes := range payload {
		lines = append(lines, usecase.ExternalWeeklyStat{
			PlayerExternalID: playerID,
			PassingYards:     int(codes[statCodes.passYd]),
			PassingTDs:       int(codes[statCodes.passTd]),
			Interceptions:    int(codes[statCodes.passInt]),
			RushingYards:     int(codes[statCodes.rushYd]),
			RushingTDs:       int(codes[statCodes.rushTd]),
			ReceivingYards:   int(codes[statCodes.recYd]),
			ReceivingTDs:     int(codes[statCodes.recTd]),
			Receptions:       int(codes[statCodes.rec]),
			FumblesLost:      int(codes[statCodes.fumLost]),
		})
	}

	return lines, nil
}

// Ping checks provider reachability via the lightweight state endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var state struct {
		Season string `json:"season"`
	}
	if err := c.doJSON(ctx, "/v1/state/nfl", &state); err != nil {
		return fmt.Errorf("sleeper unreachable: %w", err)
	}

	return nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sleeper circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sleeper is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isSleeperCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode sleeper payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errSleeperTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errSleeperTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				lastErr = fmt.Errorf("sleeper status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: %v", errSleeperTransient, lastErr)
				} else {
					return nil, lastErr
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("sleeper request failed")
	}
	c.logger.WarnContext(ctx, "sleeper request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isSleeperCircuitFailure(err error) bool {
	return crerr.Is(err, errSleeperTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

// stringifyID normalizes Sleeper's loosely typed cross-provider ids,
// which arrive as numbers or strings depending on the player.
func stringifyID(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return fmt.Sprintf("%.0f", value)
	default:
		return ""
	}
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
