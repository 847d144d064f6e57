package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/statline/gridiron/internal/domain/mapping"
	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/domain/synclog"
	"github.com/statline/gridiron/internal/platform/id"
	"github.com/statline/gridiron/internal/platform/logging"
)

// ExternalAthlete is a provider-shaped identity record used for
// cross-provider reconciliation.
type ExternalAthlete struct {
	ExternalID string
	Name       string
	Team       string
	Position   string
}

type AthleteProvider interface {
	FetchAthletes(ctx context.Context) ([]ExternalAthlete, error)
}

const (
	defaultPendingLimit   = 50
	maxSuggestionsPerItem = 3
	suggestionScoreFloor  = 0.3
	autoBindScore         = 1.0

	defaultRejectReason = "rejected during manual review"
)

type MappingService struct {
	provider   AthleteProvider
	playerRepo player.Repository
	reviewRepo mapping.Repository
	runRepo    synclog.Repository
	idgen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewMappingService(
	provider AthleteProvider,
	playerRepo player.Repository,
	reviewRepo mapping.Repository,
	runRepo synclog.Repository,
	idgen id.Generator,
	logger *logging.Logger,
) *MappingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MappingService{
		provider:   provider,
		playerRepo: playerRepo,
		reviewRepo: reviewRepo,
		runRepo:    runRepo,
		idgen:      idgen,
		logger:     logger,
		now:        time.Now,
	}
}

// RebuildQueue matches provider athletes against canonical players that
// still lack a provider ID. Exact matches bind immediately; everything
// else lands in the review queue with scored suggestions for an
// operator to resolve.
func (s *MappingService) RebuildQueue(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MappingService.RebuildQueue")
	defer span.End()

	if s.provider == nil {
		return SyncResult{}, fmt.Errorf("%w: athlete provider is not configured", ErrDependencyUnavailable)
	}

	startedAt := s.now().UTC()
	result := SyncResult{Type: synclog.RunTypeMappingRebuild, Errors: []string{}}

	unmapped, err := s.playerRepo.ListMissingEspnID(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list unmapped players: %w", err)
	}
	athletes, err := s.provider.FetchAthletes(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch athletes: %w", err)
	}

	byPosition := make(map[player.Position][]ExternalAthlete)
	for _, athlete := range athletes {
		position, ok := player.ParsePosition(athlete.Position)
		if !ok {
			continue
		}
		byPosition[position] = append(byPosition[position], athlete)
	}

	entries := make([]mapping.ReviewEntry, 0)
	errorCount := 0
	for _, candidate := range unmapped {
		result.TotalProcessed++

		best, suggestions := s.matchAthletes(candidate, byPosition[candidate.Position])
		if len(suggestions) == 0 {
			result.Skipped++
			continue
		}

		if best.Score >= autoBindScore {
			if bindErr := s.playerRepo.SetEspnID(ctx, candidate.ID, best.athleteID); bindErr != nil {
				errorCount++
				result.Errors = append(result.Errors, fmt.Sprintf("bind player %s: %v", candidate.ID, bindErr))
				continue
			}
			result.Updated++
			continue
		}

		entryID, idErr := s.idgen.NewID()
		if idErr != nil {
			return SyncResult{}, fmt.Errorf("generate review entry id: %w", idErr)
		}
		entries = append(entries, mapping.ReviewEntry{
			ID:             entryID,
			SourceID:       candidate.ID,
			SourceName:     candidate.Name,
			SourceTeam:     candidate.Team,
			SourcePosition: string(candidate.Position),
			Suggestions:    suggestions,
			CreatedAt:      startedAt,
		})
	}

	if len(entries) > 0 {
		if insertErr := s.reviewRepo.InsertMany(ctx, entries); insertErr != nil {
			errorCount += len(entries)
			result.Errors = append(result.Errors, fmt.Sprintf("queue review entries: %v", insertErr))
		} else {
			result.Added = len(entries)
		}
	}

	result.Success = classifyRunSuccess(result.TotalProcessed, errorCount)
	result.Errors = capReportedErrors(result.Errors)
	finishedAt := s.now().UTC()
	result.DurationMs = finishedAt.Sub(startedAt).Milliseconds()

	s.recordRun(ctx, synclog.Run{
		Type:       synclog.RunTypeMappingRebuild,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Processed:  result.TotalProcessed,
		Added:      result.Added,
		Updated:    result.Updated,
		Skipped:    result.Skipped,
		ErrorCount: errorCount,
		Success:    result.Success,
	})

	s.logger.InfoContext(ctx, "mapping rebuild finished",
		"processed", result.TotalProcessed,
		"auto_bound", result.Updated,
		"queued", result.Added,
		"skipped", result.Skipped,
		"success", result.Success,
	)

	return result, nil
}

type scoredMatch struct {
	athleteID string
	Score     float64
}

func (s *MappingService) matchAthletes(candidate player.Player, athletes []ExternalAthlete) (scoredMatch, []mapping.Suggestion) {
	type scored struct {
		athlete ExternalAthlete
		score   float64
	}

	matches := make([]scored, 0)
	for _, athlete := range athletes {
		score := nameSimilarity(candidate.Name, athlete.Name)
		if score < 1 && candidate.Team != "" && strings.EqualFold(candidate.Team, athlete.Team) {
			score += 0.1
			if score > 1 {
				score = 1
			}
		}
		if score < suggestionScoreFloor {
			continue
		}
		matches = append(matches, scored{athlete: athlete, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > maxSuggestionsPerItem {
		matches = matches[:maxSuggestionsPerItem]
	}

	suggestions := make([]mapping.Suggestion, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, mapping.Suggestion{
			PlayerID:   m.athlete.ExternalID,
			Name:       m.athlete.Name,
			Team:       m.athlete.Team,
			Score:      m.score,
			Confidence: mapping.ConfidenceFromScore(m.score),
		})
	}

	if len(matches) == 0 {
		return scoredMatch{}, nil
	}

	return scoredMatch{athleteID: matches[0].athlete.ExternalID, Score: matches[0].score}, suggestions
}

// ListPending returns queue entries awaiting operator review, oldest
// first.
func (s *MappingService) ListPending(ctx context.Context, limit int) ([]mapping.ReviewEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MappingService.ListPending")
	defer span.End()

	if limit <= 0 {
		limit = defaultPendingLimit
	}

	entries, err := s.reviewRepo.ListPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending mappings: %w", err)
	}

	return entries, nil
}

// AcceptSuggestion binds the source player to one of the entry's
// suggested matches and removes the entry from the queue.
func (s *MappingService) AcceptSuggestion(ctx context.Context, entryID, suggestedID, operator string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MappingService.AcceptSuggestion")
	defer span.End()

	entry, err := s.mustGetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	found := false
	for _, suggestion := range entry.Suggestions {
		if suggestion.PlayerID == suggestedID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s is not a suggested match for entry %s", ErrInvalidInput, suggestedID, entryID)
	}

	if err := s.playerRepo.SetEspnID(ctx, entry.SourceID, suggestedID); err != nil {
		return fmt.Errorf("bind player %s: %w", entry.SourceID, err)
	}
	if err := s.reviewRepo.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("resolve review entry %s: %w", entryID, err)
	}

	s.logger.InfoContext(ctx, "mapping suggestion accepted",
		"entry_id", entryID,
		"player_id", entry.SourceID,
		"bound_to", suggestedID,
		"operator", operator,
	)

	return nil
}

// AcceptCustom records an operator-entered mapping that did not come
// from a suggestion. Both fields only need to be non-empty.
func (s *MappingService) AcceptCustom(ctx context.Context, entryID, externalID, canonicalName, operator string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MappingService.AcceptCustom")
	defer span.End()

	externalID = strings.TrimSpace(externalID)
	canonicalName = strings.TrimSpace(canonicalName)
	if externalID == "" || canonicalName == "" {
		return fmt.Errorf("%w: custom mapping requires an external id and a canonical name", ErrInvalidInput)
	}

	entry, err := s.mustGetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.InsertCustomBinding(ctx, mapping.CustomBinding{
		ExternalID:    externalID,
		CanonicalName: canonicalName,
		CreatedBy:     operator,
		CreatedAt:     s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("store custom mapping: %w", err)
	}
	if err := s.reviewRepo.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("resolve review entry %s: %w", entryID, err)
	}

	s.logger.InfoContext(ctx, "custom mapping accepted",
		"entry_id", entryID,
		"source_id", entry.SourceID,
		"external_id", externalID,
		"operator", operator,
	)

	return nil
}

// Reject removes the entry without binding anything. A blank reason is
// replaced with a generic one.
func (s *MappingService) Reject(ctx context.Context, entryID, reason, operator string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MappingService.Reject")
	defer span.End()

	if strings.TrimSpace(reason) == "" {
		reason = defaultRejectReason
	}

	entry, err := s.mustGetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("resolve review entry %s: %w", entryID, err)
	}

	s.logger.InfoContext(ctx, "mapping rejected",
		"entry_id", entryID,
		"source_id", entry.SourceID,
		"reason", reason,
		"operator", operator,
	)

	return nil
}

func (s *MappingService) mustGetEntry(ctx context.Context, entryID string) (mapping.ReviewEntry, error) {
	if entryID == "" {
		return mapping.ReviewEntry{}, fmt.Errorf("%w: review entry id is required", ErrInvalidInput)
	}
	entry, ok, err := s.reviewRepo.GetByID(ctx, entryID)
	if err != nil {
		return mapping.ReviewEntry{}, fmt.Errorf("get review entry %s: %w", entryID, err)
	}
	if !ok {
		return mapping.ReviewEntry{}, fmt.Errorf("%w: review entry %s", ErrNotFound, entryID)
	}

	return entry, nil
}

func (s *MappingService) recordRun(ctx context.Context, run synclog.Run) {
	if s.runRepo == nil {
		return
	}
	if s.idgen != nil {
		if runID, err := s.idgen.NewID(); err == nil {
			run.ID = runID
		}
	}
	if err := s.runRepo.Insert(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "record sync run failed", "type", run.Type, "error", err)
	}
}

var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
}

// nameSimilarity scores two player names in [0,1] using token overlap
// after normalization. Generational suffixes and punctuation do not
// count against a match.
func nameSimilarity(a, b string) float64 {
	tokensA := nameTokens(a)
	tokensB := nameTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setB := make(map[string]struct{}, len(tokensB))
	for _, tok := range tokensB {
		setB[tok] = struct{}{}
	}

	shared := 0
	for _, tok := range tokensA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}

	longer := len(tokensA)
	if len(tokensB) > longer {
		longer = len(tokensB)
	}

	return float64(shared) / float64(longer)
}

func nameTokens(name string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == '.', r == '\'', r == '-':
			return ' '
		default:
			return ' '
		}
	}, name)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, skip := nameSuffixes[field]; skip {
			continue
		}
		tokens = append(tokens, field)
	}

	return tokens
}
