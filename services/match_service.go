package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reklub/kumitsu-app/brackets"
	"github.com/reklub/kumitsu-app/live"
	"github.com/reklub/kumitsu-app/models"
	"github.com/reklub/kumitsu-app/repositories"
)

type MatchListFilter struct {
	CategoryID *int
	Status     *models.MatchStatus
	Round      *int
}

type RecordResultInput struct {
	WinnerID int `json:"winner_id"`
	Score1   int `json:"score1"`
	Score2   int `json:"score2"`
}

type StartTournamentInput struct {
	StartTime       *time.Time `json:"start_time,omitempty"`
	Courts          *int       `json:"courts,omitempty"`
	IntervalMinutes *int       `json:"interval_minutes,omitempty"`
}

// ScheduleDefaults are used by StartTournament when the request leaves
// courts or interval unset.
type ScheduleDefaults struct {
	Courts        int
	MatchInterval time.Duration
}

type ResultOutcome struct {
	Match       *models.Match    `json:"match"`
	Advancement brackets.Outcome `json:"advancement"`
	NextMatch   *models.Match    `json:"next_match,omitempty"`
	Slot        models.Slot      `json:"slot,omitempty"`
}

type SlotFilledPayload struct {
	MatchID   int         `json:"match_id"`
	Slot      models.Slot `json:"slot"`
	EntrantID int         `json:"entrant_id"`
	FromMatch int         `json:"from_match_id"`
}

type CategoryCompletedPayload struct {
	CategoryID int `json:"category_id"`
	WinnerID   int `json:"winner_id"`
	MatchID    int `json:"match_id"`
}

type TournamentStartedPayload struct {
	TournamentID     int       `json:"tournament_id"`
	StartTime        time.Time `json:"start_time"`
	ScheduledMatches int       `json:"scheduled_matches"`
}

type MatchService interface {
	ListMatches(ctx context.Context, tournamentID int, filter MatchListFilter) ([]*models.Match, error)
	// CurrentMatches returns scheduled and running matches by scheduled time.
	CurrentMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
	StartMatch(ctx context.Context, matchID int) (*models.Match, error)
	CancelMatch(ctx context.Context, matchID int) (*models.Match, error)
	// RecordResult completes a match and, for knockout brackets, moves the
	// winner into the next round in the same transaction.
	RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*ResultOutcome, error)
	// StartTournament assigns courts and times to every scheduled first-round
	// match in match number order.
	StartTournament(ctx context.Context, tournamentID int, input StartTournamentInput) ([]*models.Match, error)
	GetStats(ctx context.Context, tournamentID int) (*models.TournamentStats, error)
	// GetStandings ranks the entrants of a category by their completed matches.
	GetStandings(ctx context.Context, tournamentID, categoryID int) ([]models.Standing, error)
}

type matchService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	categoryRepo   repositories.CategoryRepository
	matchRepo      repositories.MatchRepository
	notifier       Notifier
	locker         *KeyedLocker
	defaults       ScheduleDefaults
	logger         *slog.Logger
	now            func() time.Time
}

func NewMatchService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	categoryRepo repositories.CategoryRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
	locker *KeyedLocker,
	defaults ScheduleDefaults,
	logger *slog.Logger,
) MatchService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if locker == nil {
		locker = NewKeyedLocker()
	}
	if defaults.Courts <= 0 {
		defaults.Courts = 1
	}
	if defaults.MatchInterval <= 0 {
		defaults.MatchInterval = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		db:             db,
		tournamentRepo: tournamentRepo,
		categoryRepo:   categoryRepo,
		matchRepo:      matchRepo,
		notifier:       notifier,
		locker:         locker,
		defaults:       defaults,
		logger:         logger.With(slog.String("service", "match")),
		now:            time.Now,
	}
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int, filter MatchListFilter) ([]*models.Match, error) {
	if filter.Status != nil && !models.IsValidMatchStatus(*filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, *filter.Status)
	}
	if filter.Round != nil && *filter.Round <= 0 {
		return nil, fmt.Errorf("%w: round must be positive", ErrValidationFailed)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, repositories.MatchFilter{
		CategoryID: filter.CategoryID,
		Status:     filter.Status,
		Round:      filter.Round,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *matchService) CurrentMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListCurrent(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list current matches of tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *matchService) StartMatch(ctx context.Context, matchID int) (*models.Match, error) {
	return s.changeStatus(ctx, matchID, models.MatchStatusInProgress, func(m *models.Match, now time.Time) error {
		if !m.IsReady() {
			return ErrMatchNotReady
		}
		m.ActualStartTime = &now
		return nil
	})
}

func (s *matchService) CancelMatch(ctx context.Context, matchID int) (*models.Match, error) {
	return s.changeStatus(ctx, matchID, models.MatchStatusCancelled, func(m *models.Match, now time.Time) error {
		m.ActualEndTime = &now
		return nil
	})
}

func (s *matchService) changeStatus(ctx context.Context, matchID int, next models.MatchStatus, apply func(m *models.Match, now time.Time) error) (*models.Match, error) {
	var match *models.Match
	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		m, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if !models.CanTransition(m.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidMatchTransition, m.Status, next)
		}
		if err := apply(m, s.now().UTC()); err != nil {
			return err
		}
		m.Status = next
		if err := s.matchRepo.UpdateStatus(ctx, tx, m); err != nil {
			return handleRepositoryError(err)
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match status changed", slog.Int("match_id", matchID), slog.String("status", string(next)))
	s.notifier.Publish(match.TournamentID, live.MessageMatchUpdated, match)
	return match, nil
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*ResultOutcome, error) {
	if input.Score1 < 0 || input.Score2 < 0 {
		return nil, fmt.Errorf("%w: scores must not be negative", ErrValidationFailed)
	}

	// The category is only known after a first read; the row lock below
	// re-reads the match.
	peek, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	unlock := s.locker.LockCategories(peek.CategoryID)
	defer unlock()

	outcome := &ResultOutcome{}
	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if err := s.categoryRepo.LockForUpdate(ctx, tx, peek.CategoryID); err != nil {
			return handleRepositoryError(err)
		}
		m, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if !models.CanTransition(m.Status, models.MatchStatusCompleted) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidMatchTransition, m.Status, models.MatchStatusCompleted)
		}
		if !m.IsReady() {
			return ErrMatchNotReady
		}
		if !m.HasParticipant(input.WinnerID) {
			return ErrWinnerNotInMatch
		}

		now := s.now().UTC()
		winner := input.WinnerID
		m.WinnerID = &winner
		m.Score1 = input.Score1
		m.Score2 = input.Score2
		m.Status = models.MatchStatusCompleted
		m.ActualEndTime = &now
		if err := s.matchRepo.UpdateResult(ctx, tx, m); err != nil {
			return handleRepositoryError(err)
		}
		outcome.Match = m

		category, err := s.categoryRepo.GetByID(ctx, tx, m.CategoryID)
		if err != nil {
			return handleRepositoryError(err)
		}
		return s.advance(ctx, tx, category, m, outcome)
	})
	if err != nil {
		return nil, err
	}

	m := outcome.Match
	s.notifier.Publish(m.TournamentID, live.MessageMatchUpdated, m)
	switch outcome.Advancement {
	case brackets.OutcomeAdvanced:
		s.notifier.Publish(m.TournamentID, live.MessageSlotFilled, SlotFilledPayload{
			MatchID:   outcome.NextMatch.ID,
			Slot:      outcome.Slot,
			EntrantID: *m.WinnerID,
			FromMatch: m.ID,
		})
	case brackets.OutcomeFinal:
		s.notifier.Publish(m.TournamentID, live.MessageCategoryCompleted, CategoryCompletedPayload{
			CategoryID: m.CategoryID,
			WinnerID:   *m.WinnerID,
			MatchID:    m.ID,
		})
	}
	return outcome, nil
}

// advance runs the advancement engine for a freshly completed match and
// persists the slot it fills. Engine no-ops are logged, never returned as errors.
func (s *matchService) advance(ctx context.Context, tx *sql.Tx, category *models.Category, m *models.Match, outcome *ResultOutcome) error {
	var roundMatches, nextMatches []*models.Match
	if category.BracketType.IsAdvancing() {
		stored, err := s.matchRepo.ListByCategoryRounds(ctx, tx, m.CategoryID, []int{m.Round, m.Round + 1})
		if err != nil {
			return err
		}
		for _, candidate := range stored {
			switch {
			case candidate.ID == m.ID:
				roundMatches = append(roundMatches, m)
			case candidate.Round == m.Round:
				roundMatches = append(roundMatches, candidate)
			default:
				nextMatches = append(nextMatches, candidate)
			}
		}
	}

	res := brackets.Advance(brackets.AdvanceInput{
		Completed:        m,
		BracketType:      category.BracketType,
		RoundMatches:     roundMatches,
		NextRoundMatches: nextMatches,
	})
	outcome.Advancement = res.Outcome

	attrs := []any{
		slog.Int("match_id", m.ID),
		slog.Int("category_id", m.CategoryID),
		slog.Int("round", m.Round),
		slog.String("outcome", string(res.Outcome)),
	}
	switch res.Outcome {
	case brackets.OutcomeAdvanced:
		err := s.matchRepo.FillSlot(ctx, tx, res.Target.ID, res.Slot, *m.WinnerID)
		if errors.Is(err, repositories.ErrSlotOccupied) {
			// Another writer filled the slot between our read and write.
			outcome.Advancement = brackets.OutcomeSlotTaken
			s.logger.Warn("next match slot already taken", attrs...)
			return nil
		}
		if err != nil {
			return handleRepositoryError(err)
		}
		outcome.NextMatch = res.Target
		outcome.Slot = res.Slot
		s.logger.Info("winner advanced", append(attrs, slog.Int("next_match_id", res.Target.ID), slog.Int("slot", int(res.Slot)))...)
	case brackets.OutcomeFinal:
		s.logger.Info("category final completed", append(attrs, slog.Int("winner_id", *m.WinnerID))...)
	case brackets.OutcomeNonAdvancing:
		s.logger.Debug("no advancement for bracket type", attrs...)
	default:
		s.logger.Warn("advancement skipped", attrs...)
	}
	return nil
}

func (s *matchService) StartTournament(ctx context.Context, tournamentID int, input StartTournamentInput) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	courts := s.defaults.Courts
	if input.Courts != nil {
		if *input.Courts <= 0 {
			return nil, fmt.Errorf("%w: courts must be positive", ErrValidationFailed)
		}
		courts = *input.Courts
	}
	interval := s.defaults.MatchInterval
	if input.IntervalMinutes != nil {
		if *input.IntervalMinutes <= 0 {
			return nil, fmt.Errorf("%w: interval must be positive", ErrValidationFailed)
		}
		interval = time.Duration(*input.IntervalMinutes) * time.Minute
	}
	start := tournament.StartDate
	if input.StartTime != nil {
		start = *input.StartTime
	} else if now := s.now(); now.After(start) {
		start = now
	}
	start = start.UTC()

	unlock := s.locker.LockTournament(tournamentID)
	defer unlock()

	var scheduled []*models.Match
	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		status := models.MatchStatusScheduled
		round := 1
		matches, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID, repositories.MatchFilter{Status: &status, Round: &round})
		if err != nil {
			return err
		}
		brackets.SortByMatchNumber(matches)
		for i, m := range matches {
			at := start.Add(time.Duration(i) * interval)
			court := fmt.Sprintf("Court %d", i%courts+1)
			m.ScheduledTime = &at
			m.Court = &court
			if err := s.matchRepo.UpdateSchedule(ctx, tx, m); err != nil {
				return handleRepositoryError(err)
			}
		}
		scheduled = matches
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start tournament %d: %w", tournamentID, err)
	}

	s.logger.Info("tournament started",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", len(scheduled)),
		slog.Int("courts", courts),
		slog.Duration("interval", interval))
	s.notifier.Publish(tournamentID, live.MessageTournamentStarted, TournamentStartedPayload{
		TournamentID:     tournamentID,
		StartTime:        start,
		ScheduledMatches: len(scheduled),
	})
	return scheduled, nil
}

func (s *matchService) GetStats(ctx context.Context, tournamentID int) (*models.TournamentStats, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}

	counts, err := s.matchRepo.CountByStatus(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListActiveByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	entrants, err := s.categoryRepo.CountEntrantsByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	stats := &models.TournamentStats{
		TournamentID:      tournamentID,
		CompletedMatches:  counts[models.MatchStatusCompleted],
		InProgressMatches: counts[models.MatchStatusInProgress],
		ScheduledMatches:  counts[models.MatchStatusScheduled],
		CancelledMatches:  counts[models.MatchStatusCancelled],
		TotalEntrants:     entrants,
		CategoriesCount:   len(categories),
	}
	for _, c := range counts {
		stats.TotalMatches += c
	}
	return stats, nil
}

func (s *matchService) GetStandings(ctx context.Context, tournamentID, categoryID int) ([]models.Standing, error) {
	category, err := s.categoryRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if category.TournamentID != tournamentID {
		return nil, ErrCategoryNotFound
	}

	entrants, err := s.categoryRepo.ListEntrants(ctx, nil, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entrants of category %d: %w", categoryID, err)
	}
	matches, err := s.matchRepo.ListByCategory(ctx, nil, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of category %d: %w", categoryID, err)
	}
	return brackets.ComputeStandings(entrants, matches), nil
}
