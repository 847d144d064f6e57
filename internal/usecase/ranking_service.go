package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/domain/ranking"
	"github.com/statline/gridiron/internal/domain/scoring"
	"github.com/statline/gridiron/internal/domain/stats"
	"github.com/statline/gridiron/internal/platform/cache"
	"github.com/statline/gridiron/internal/platform/id"
	"github.com/statline/gridiron/internal/platform/logging"
)

const defaultRankingSize = 200

// RankingRow pairs an entry with its resolved player.
type RankingRow struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Team     string  `json:"team"`
	Points   float64 `json:"points,omitempty"`
}

type RankingService struct {
	rankingRepo ranking.Repository
	playerRepo  player.Repository
	statsRepo   stats.Repository
	cache       *cache.Store
	idgen       id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewRankingService(
	rankingRepo ranking.Repository,
	playerRepo player.Repository,
	statsRepo stats.Repository,
	store *cache.Store,
	idgen id.Generator,
	logger *logging.Logger,
) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RankingService{
		rankingRepo: rankingRepo,
		playerRepo:  playerRepo,
		statsRepo:   statsRepo,
		cache:       store,
		idgen:       idgen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *RankingService) CreateSet(ctx context.Context, userID, name, format string) (ranking.Set, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.CreateSet")
	defer span.End()

	parsedFormat, err := scoring.ParseFormat(format)
	if err != nil {
		return ranking.Set{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ranking.Set{}, fmt.Errorf("%w: ranking set name is required", ErrInvalidInput)
	}

	setID, err := s.idgen.NewID()
	if err != nil {
		return ranking.Set{}, fmt.Errorf("generate set id: %w", err)
	}

	now := s.now().UTC()
	set := ranking.Set{
		ID:        setID,
		UserID:    userID,
		Name:      name,
		Format:    parsedFormat,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := set.Validate(); err != nil {
		return ranking.Set{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.rankingRepo.CreateSet(ctx, set); err != nil {
		return ranking.Set{}, fmt.Errorf("create ranking set: %w", err)
	}

	return set, nil
}

func (s *RankingService) ListSets(ctx context.Context, userID string) ([]ranking.Set, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.ListSets")
	defer span.End()

	sets, err := s.rankingRepo.ListSetsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ranking sets: %w", err)
	}

	return sets, nil
}

func (s *RankingService) RenameSet(ctx context.Context, userID, setID, name string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.RenameSet")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: ranking set name is required", ErrInvalidInput)
	}
	if _, err := s.mustOwnSet(ctx, userID, setID); err != nil {
		return err
	}
	if err := s.rankingRepo.RenameSet(ctx, setID, name); err != nil {
		return fmt.Errorf("rename ranking set %s: %w", setID, err)
	}

	return nil
}

func (s *RankingService) DeleteSet(ctx context.Context, userID, setID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.DeleteSet")
	defer span.End()

	if _, err := s.mustOwnSet(ctx, userID, setID); err != nil {
		return err
	}
	if err := s.rankingRepo.DeleteSet(ctx, setID); err != nil {
		return fmt.Errorf("delete ranking set %s: %w", setID, err)
	}

	return nil
}

// Reorder replaces the set's entries with the given player order. Ranks
// are reassigned densely from 1 in slice order, so callers only send an
// ordered list of player IDs.
func (s *RankingService) Reorder(ctx context.Context, userID, setID string, playerIDs []string) ([]ranking.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Reorder")
	defer span.End()

	if len(playerIDs) == 0 {
		return nil, fmt.Errorf("%w: reorder requires at least one player", ErrInvalidInput)
	}
	if _, err := s.mustOwnSet(ctx, userID, setID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(playerIDs))
	entries := make([]ranking.Entry, 0, len(playerIDs))
	for i, playerID := range playerIDs {
		if playerID == "" {
			return nil, fmt.Errorf("%w: player id at index %d is empty", ErrInvalidInput, i)
		}
		if _, dup := seen[playerID]; dup {
			return nil, fmt.Errorf("%w: player %s appears more than once", ErrInvalidInput, playerID)
		}
		seen[playerID] = struct{}{}
		entries = append(entries, ranking.Entry{SetID: setID, PlayerID: playerID, Rank: i + 1})
	}

	if err := s.rankingRepo.ReplaceEntries(ctx, setID, entries); err != nil {
		return nil, fmt.Errorf("replace ranking entries: %w", err)
	}

	return entries, nil
}

// Entries returns the set's rows joined against the player table,
// ordered by rank.
func (s *RankingService) Entries(ctx context.Context, userID, setID string) ([]RankingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Entries")
	defer span.End()

	if _, err := s.mustOwnSet(ctx, userID, setID); err != nil {
		return nil, err
	}
	entries, err := s.rankingRepo.ListEntries(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("list ranking entries: %w", err)
	}

	rows := make([]RankingRow, 0, len(entries))
	for _, entry := range entries {
		row := RankingRow{Rank: entry.Rank, PlayerID: entry.PlayerID}
		if resolved, ok, getErr := s.playerRepo.GetByID(ctx, entry.PlayerID); getErr == nil && ok {
			row.Name = resolved.Name
			row.Position = string(resolved.Position)
			row.Team = resolved.Team
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })

	return rows, nil
}

// DefaultRankings materializes a format-specific ranking from the most
// recent synced week: players ordered by that week's fantasy points.
// The view is cached briefly since it only moves when a sync lands.
func (s *RankingService) DefaultRankings(ctx context.Context, season int, format string) ([]RankingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.DefaultRankings")
	defer span.End()

	parsedFormat, err := scoring.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if season < 2000 {
		return nil, fmt.Errorf("%w: season %d is out of range", ErrInvalidInput, season)
	}

	cacheKey := fmt.Sprintf("rankings:default:%d:%s", season, parsedFormat)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			if rows, castOK := cached.([]RankingRow); castOK {
				return rows, nil
			}
		}
	}

	rows, err := s.buildDefaultRankings(ctx, season, parsedFormat)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, rows)
	}

	return rows, nil
}

func (s *RankingService) buildDefaultRankings(ctx context.Context, season int, format scoring.Format) ([]RankingRow, error) {
	week, found, err := s.statsRepo.LatestWeek(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("latest synced week: %w", err)
	}
	if !found {
		return []RankingRow{}, nil
	}

	lines, err := s.statsRepo.ListByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("list week stats: %w", err)
	}

	settings := scoring.DefaultSettings(format)
	type scoredLine struct {
		playerID string
		points   float64
	}
	scores := make([]scoredLine, 0, len(lines))
	for _, line := range lines {
		result := scoring.CalculatePoints(scoring.FromWeeklyCounts(
			line.PassingYards, line.PassingTDs, line.Interceptions,
			line.RushingYards, line.RushingTDs,
			line.ReceivingYards, line.ReceivingTDs, line.Receptions,
			line.FumblesLost,
		), settings)
		scores = append(scores, scoredLine{playerID: line.PlayerID, points: result.TotalPoints})
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].points > scores[j].points })
	if len(scores) > defaultRankingSize {
		scores = scores[:defaultRankingSize]
	}

	rows := make([]RankingRow, 0, len(scores))
	for i, sc := range scores {
		row := RankingRow{Rank: i + 1, PlayerID: sc.playerID, Points: sc.points}
		if resolved, ok, getErr := s.playerRepo.GetByID(ctx, sc.playerID); getErr == nil && ok {
			row.Name = resolved.Name
			row.Position = string(resolved.Position)
			row.Team = resolved.Team
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *RankingService) mustOwnSet(ctx context.Context, userID, setID string) (ranking.Set, error) {
	if setID == "" {
		return ranking.Set{}, fmt.Errorf("%w: ranking set id is required", ErrInvalidInput)
	}
	set, ok, err := s.rankingRepo.GetSet(ctx, setID)
	if err != nil {
		return ranking.Set{}, fmt.Errorf("get ranking set %s: %w", setID, err)
	}
	if !ok {
		return ranking.Set{}, fmt.Errorf("%w: ranking set %s", ErrNotFound, setID)
	}
	if set.UserID != userID {
		return ranking.Set{}, fmt.Errorf("%w: ranking set %s belongs to another user", ErrForbidden, setID)
	}

	return set, nil
}
