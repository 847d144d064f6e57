package usecase

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/statline/gridiron/internal/platform/cache"
	"github.com/statline/gridiron/internal/platform/logging"
)

const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
	HealthDown     = "down"
)

const (
	defaultProbeTimeout  = 5 * time.Second
	defaultCacheMaxAge   = 30 * time.Minute
	cacheProbeName       = "cache"
	componentStatusOK    = "healthy"
	componentStatusError = "down"
)

// ComponentProbe checks one dependency. Critical probes take the whole
// verdict to "down" when they fail; non-critical ones only degrade it.
type ComponentProbe struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

type ComponentStatus struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type HealthReport struct {
	Status     string            `json:"status"`
	Components []ComponentStatus `json:"components"`
	CheckedAt  time.Time         `json:"checked_at"`
}

type HealthService struct {
	probes       []ComponentProbe
	cacheStore   *cache.Store
	cacheMaxAge  time.Duration
	probeTimeout time.Duration
	logger       *logging.Logger
	now          func() time.Time
}

func NewHealthService(probes []ComponentProbe, cacheStore *cache.Store, cacheMaxAge time.Duration, logger *logging.Logger) *HealthService {
	if logger == nil {
		logger = logging.Default()
	}
	if cacheMaxAge <= 0 {
		cacheMaxAge = defaultCacheMaxAge
	}

	return &HealthService{
		probes:       probes,
		cacheStore:   cacheStore,
		cacheMaxAge:  cacheMaxAge,
		probeTimeout: defaultProbeTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// Check runs every probe concurrently and folds the results into one
// verdict. A slow dependency cannot hold the report past the per-probe
// timeout.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	ctx, span := startUsecaseSpan(ctx, "usecase.HealthService.Check")
	defer span.End()

	statuses := make([]ComponentStatus, len(s.probes))

	var wg conc.WaitGroup
	for i, probe := range s.probes {
		wg.Go(func() {
			statuses[i] = s.runProbe(ctx, probe)
		})
	}
	wg.Wait()

	if s.cacheStore != nil {
		statuses = append(statuses, s.cacheFreshness())
	}

	report := HealthReport{
		Status:     s.verdict(statuses),
		Components: statuses,
		CheckedAt:  s.now().UTC(),
	}
	if report.Status != HealthHealthy {
		s.logger.WarnContext(ctx, "health check not fully healthy", "status", report.Status)
	}

	return report
}

func (s *HealthService) runProbe(ctx context.Context, probe ComponentProbe) ComponentStatus {
	probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	started := s.now()
	err := probe.Check(probeCtx)
	status := ComponentStatus{
		Name:      probe.Name,
		Status:    componentStatusOK,
		LatencyMs: s.now().Sub(started).Milliseconds(),
	}
	if err != nil {
		status.Status = componentStatusError
		status.Error = err.Error()
	}

	return status
}

// cacheFreshness degrades when nothing has written to the cache within
// the freshness window. A cold cache on a fresh boot reads as stale on
// purpose: it means no sync has landed yet.
func (s *HealthService) cacheFreshness() ComponentStatus {
	status := ComponentStatus{Name: cacheProbeName, Status: componentStatusOK}

	lastWrite := s.cacheStore.LastWriteAt()
	if lastWrite.IsZero() || s.now().Sub(lastWrite) > s.cacheMaxAge {
		status.Status = "stale"
	}

	return status
}

func (s *HealthService) verdict(statuses []ComponentStatus) string {
	verdict := HealthHealthy
	criticalByName := make(map[string]bool, len(s.probes))
	for _, probe := range s.probes {
		criticalByName[probe.Name] = probe.Critical
	}

	for _, status := range statuses {
		if status.Status == componentStatusOK {
			continue
		}
		if status.Status == componentStatusError && criticalByName[status.Name] {
			return HealthDown
		}
		verdict = HealthDegraded
	}

	return verdict
}
