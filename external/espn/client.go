package espn

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/statline/gridiron/internal/platform/logging"
	"github.com/statline/gridiron/internal/platform/resilience"
	"github.com/statline/gridiron/internal/usecase"
)

const (
	defaultBaseURL     = "https://sports.core.api.espn.com/v3/sports/football/nfl"
	defaultAthleteCap  = 20000
	responseBodyLimit  = 64 << 20
	defaultReadTimeout = 30 * time.Second
)

var errEspnTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the ESPN public athlete catalog. The athlete dump is the
// largest payload this service touches, so the transport runs on
// fasthttp with pooled body buffers instead of net/http.
type Client struct {
	transport      *fasthttp.Client
	baseURL        string
	timeout        time.Duration
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

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		transport: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: responseBodyLimit,
		},
		baseURL:        baseURL,
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type athletePage struct {
	Count int           `json:"count"`
	Items []athleteItem `json:"items"`
}

type athleteItem struct {
	ID          any    `json:"id"`
	DisplayName string `json:"displayName"`
	FullName    string `json:"fullName"`
	Position    struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Team struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	Active bool `json:"active"`
}

// FetchAthletes pulls the athlete catalog in one request.
func (c *Client) FetchAthletes(ctx context.Context) ([]usecase.ExternalAthlete, error) {
	path := fmt.Sprintf("/athletes?limit=%d", defaultAthleteCap)

	var page athletePage
	if err := c.doJSON(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("fetch espn athletes: %w", err)
	}

	athletes := make([]usecase.ExternalAthlete, 0, len(page.Items))
	for _, item := range page.Items {
		id := stringifyID(item.ID)
		if id == "" {
			continue
		}
		name := item.DisplayName
		if name == "" {
			name = item.FullName
		}
		athletes = append(athletes, usecase.ExternalAthlete{
			ExternalID: id,
			Name:       name,
			Team:       item.Team.Abbreviation,
			Position:   item.Position.Abbreviation,
		})
	}

	return athletes, nil
}

// Ping fetches a single athlete page to confirm reachability.
func (c *Client) Ping(ctx context.Context) error {
	var page athletePage
	if err := c.doJSON(ctx, "/athletes?limit=1", &page); err != nil {
		return fmt.Errorf("espn unreachable: %w", err)
	}

	return nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: espn is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errEspnTransient) {
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

	buf, ok := out.(*bytebufferpool.ByteBuffer)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	defer bytebufferpool.Put(buf)

	if err := sonic.Unmarshal(buf.B, target); err != nil {
		return fmt.Errorf("decode espn payload: %w", err)
	}

	return nil
}

// executeRequest returns the body in a pooled buffer; the caller must
// return it with bytebufferpool.Put.
func (c *Client) executeRequest(ctx context.Context, fullURL string) (*bytebufferpool.ByteBuffer, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		req.SetRequestURI(fullURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("Accept", "application/json")

		err := c.transport.DoTimeout(req, resp, c.timeout)
		status := resp.StatusCode()
		var buf *bytebufferpool.ByteBuffer
		if err == nil {
			buf = bytebufferpool.Get()
			_, _ = buf.Write(resp.Body())
		}
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: send request: %v", errEspnTransient, err)
		case status >= 200 && status < 300:
			return buf, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: espn status=%d body=%s", errEspnTransient, status, abbreviateBody(buf.B))
			bytebufferpool.Put(buf)
		default:
			lastErr = fmt.Errorf("espn status=%d body=%s", status, abbreviateBody(buf.B))
			bytebufferpool.Put(buf)
			return nil, lastErr
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
		lastErr = fmt.Errorf("espn request failed")
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

// stringifyID tolerates numeric or string ids in the catalog payload.
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
