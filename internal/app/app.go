package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/statline/gridiron/external/espn"
	"github.com/statline/gridiron/external/sleeper"
	"github.com/statline/gridiron/internal/config"
	"github.com/statline/gridiron/internal/domain/mapping"
	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/domain/profile"
	"github.com/statline/gridiron/internal/domain/ranking"
	"github.com/statline/gridiron/internal/domain/stats"
	"github.com/statline/gridiron/internal/domain/synclog"
	"github.com/statline/gridiron/internal/infrastructure/account/supabase"
	"github.com/statline/gridiron/internal/infrastructure/repository/memory"
	"github.com/statline/gridiron/internal/infrastructure/repository/postgres"
	"github.com/statline/gridiron/internal/interfaces/httpapi"
	"github.com/statline/gridiron/internal/platform/cache"
	idgen "github.com/statline/gridiron/internal/platform/id"
	"github.com/statline/gridiron/internal/platform/logging"
	"github.com/statline/gridiron/internal/platform/resilience"
	"github.com/statline/gridiron/internal/usecase"
)

type repositories struct {
	players  player.Repository
	stats    stats.Repository
	rankings ranking.Repository
	mappings mapping.Repository
	runs     synclog.Repository
	profiles profile.Repository
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	appLogger := logging.Default()

	repos, dbProbe, closeDB, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	cacheStore := cache.NewStore(cfg.CacheTTL)
	generator := idgen.NewRandomGenerator()

	sleeperClient := sleeper.NewClient(sleeper.ClientConfig{
		BaseURL:    cfg.SleeperBaseURL,
		Timeout:    cfg.SleeperTimeout,
		MaxRetries: cfg.SleeperMaxRetries,
		Logger:     appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SleeperCircuitEnabled,
			FailureThreshold: cfg.SleeperCircuitFailureCount,
			OpenTimeout:      cfg.SleeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SleeperCircuitHalfOpenReq,
		},
	})
	espnClient := espn.NewClient(espn.ClientConfig{
		BaseURL:    cfg.EspnBaseURL,
		Timeout:    cfg.EspnTimeout,
		MaxRetries: cfg.EspnMaxRetries,
		Logger:     appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.EspnCircuitEnabled,
			FailureThreshold: cfg.EspnCircuitFailureCount,
			OpenTimeout:      cfg.EspnCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.EspnCircuitHalfOpenReq,
		},
	})

	scoringSvc := usecase.NewScoringService(appLogger)
	tradeSvc := usecase.NewTradeService(repos.players)
	playerSvc := usecase.NewPlayerService(repos.players, repos.stats, cacheStore)
	playerSyncSvc := usecase.NewPlayerSyncService(sleeperClient, repos.players, repos.runs, cacheStore, generator, appLogger)
	statsSyncSvc := usecase.NewStatsSyncService(sleeperClient, repos.players, repos.stats, repos.runs, cacheStore, generator, appLogger)
	syncMonitorSvc := usecase.NewSyncMonitorService(repos.runs)
	mappingSvc := usecase.NewMappingService(espnClient, repos.players, repos.mappings, repos.runs, generator, appLogger)
	rankingSvc := usecase.NewRankingService(repos.rankings, repos.players, repos.stats, cacheStore, generator, appLogger)
	profileSvc := usecase.NewProfileService(repos.profiles, appLogger)

	probes := []usecase.ComponentProbe{
		{Name: "sleeper", Check: sleeperClient.Ping},
		{Name: "espn", Check: espnClient.Ping},
		{Name: "http", Check: selfHealthProbe(cfg.HTTPAddr)},
	}
	if dbProbe != nil {
		probes = append([]usecase.ComponentProbe{{Name: "database", Critical: true, Check: dbProbe}}, probes...)
	}
	healthSvc := usecase.NewHealthService(probes, cacheStore, cfg.CacheStaleAfter, appLogger)

	supabaseClient := supabase.NewClient(
		&http.Client{Timeout: cfg.SupabaseTimeout},
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		resilience.DefaultCircuitBreakerConfig(),
		logger,
	)

	handler := httpapi.NewHandler(
		scoringSvc,
		tradeSvc,
		playerSvc,
		playerSyncSvc,
		statsSyncSvc,
		syncMonitorSvc,
		mappingSvc,
		rankingSvc,
		profileSvc,
		healthSvc,
		logger,
	)
	router := httpapi.NewRouter(
		handler,
		supabaseClient,
		logger,
		cfg.CORSAllowedOrigins,
		cfg.CalculatorAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if closeDB != nil {
		server.RegisterOnShutdown(closeDB)
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// selfHealthProbe hits the service's own liveness endpoint over
// loopback, proving the listener accepts connections rather than just
// that the health goroutine is alive.
func selfHealthProbe(addr string) func(context.Context) error {
	client := &http.Client{Timeout: 3 * time.Second}
	probeURL := selfProbeURL(addr)

	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
		if err != nil {
			return fmt.Errorf("create self probe request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("self probe: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("self probe returned status %d", resp.StatusCode)
		}

		return nil
	}
}

func selfProbeURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/healthz"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	return "http://" + net.JoinHostPort(host, port) + "/healthz"
}

// buildRepositories picks the storage backend. An empty DB_URL runs the
// service fully in memory with seeded fixtures, which is how local dev
// and the test suite operate.
func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, func(context.Context) error, func(), error) {
	if cfg.DBURL == "" {
		logger.Info("storage backend: memory", "reason", "DB_URL empty")
		return repositories{
			players:  memory.NewPlayerRepository(memory.SeedPlayers()),
			stats:    memory.NewStatsRepository(memory.SeedWeeklyStats()),
			rankings: memory.NewRankingRepository(),
			mappings: memory.NewMappingRepository(),
			runs:     memory.NewSyncLogRepository(),
			profiles: memory.NewProfileRepository(),
		}, nil, nil, nil
	}

	db, err := openDB(cfg, logger)
	if err != nil {
		return repositories{}, nil, nil, err
	}

	repos := repositories{
		players:  postgres.NewPlayerRepository(db),
		stats:    postgres.NewStatsRepository(db),
		rankings: postgres.NewRankingRepository(db),
		mappings: postgres.NewMappingRepository(db),
		runs:     postgres.NewSyncLogRepository(db),
		profiles: postgres.NewProfileRepository(db),
	}
	probe := func(ctx context.Context) error { return db.PingContext(ctx) }
	closer := func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
	}

	return repos, probe, closer, nil
}
