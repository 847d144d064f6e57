package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/statline/gridiron/internal/platform/cache"
	"github.com/statline/gridiron/internal/platform/logging"
)

func TestHealthService_Check_AllHealthy(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(time.Hour)
	store.Set(context.Background(), "warm", "value")

	svc := newTestHealthService([]ComponentProbe{
		{Name: "database", Critical: true, Check: func(context.Context) error { return nil }},
		{Name: "sleeper", Check: func(context.Context) error { return nil }},
	}, store)

	report := svc.Check(context.Background())
	if report.Status != HealthHealthy {
		t.Fatalf("expected healthy, got=%s components=%+v", report.Status, report.Components)
	}
	if len(report.Components) != 3 {
		t.Fatalf("expected 2 probes plus the cache component, got=%d", len(report.Components))
	}
}

func TestHealthService_Check_CriticalFailureIsDown(t *testing.T) {
	t.Parallel()

	svc := newTestHealthService([]ComponentProbe{
		{Name: "database", Critical: true, Check: func(context.Context) error { return fmt.Errorf("connection refused") }},
		{Name: "sleeper", Check: func(context.Context) error { return nil }},
	}, nil)

	report := svc.Check(context.Background())
	if report.Status != HealthDown {
		t.Fatalf("a failing critical probe must report down, got=%s", report.Status)
	}
}

func TestHealthService_Check_NonCriticalFailureDegrades(t *testing.T) {
	t.Parallel()

	svc := newTestHealthService([]ComponentProbe{
		{Name: "database", Critical: true, Check: func(context.Context) error { return nil }},
		{Name: "espn", Check: func(context.Context) error { return fmt.Errorf("timeout") }},
	}, nil)

	report := svc.Check(context.Background())
	if report.Status != HealthDegraded {
		t.Fatalf("a failing non-critical probe must degrade, got=%s", report.Status)
	}
}

func TestHealthService_Check_ColdCacheDegrades(t *testing.T) {
	t.Parallel()

	svc := newTestHealthService([]ComponentProbe{
		{Name: "database", Critical: true, Check: func(context.Context) error { return nil }},
	}, cache.NewStore(time.Hour))

	report := svc.Check(context.Background())
	if report.Status != HealthDegraded {
		t.Fatalf("a cache without writes must degrade, got=%s", report.Status)
	}

	var cacheComponent *ComponentStatus
	for i := range report.Components {
		if report.Components[i].Name == cacheProbeName {
			cacheComponent = &report.Components[i]
		}
	}
	if cacheComponent == nil || cacheComponent.Status != "stale" {
		t.Fatalf("cache component should be stale: %+v", report.Components)
	}
}

func newTestHealthService(probes []ComponentProbe, store *cache.Store) *HealthService {
	return &HealthService{
		probes:       probes,
		cacheStore:   store,
		cacheMaxAge:  defaultCacheMaxAge,
		probeTimeout: time.Second,
		logger:       logging.NewNop(),
		now:          time.Now,
	}
}
