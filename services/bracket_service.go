package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reklub/kumitsu-app/brackets"
	"github.com/reklub/kumitsu-app/live"
	"github.com/reklub/kumitsu-app/models"
	"github.com/reklub/kumitsu-app/repositories"
	"github.com/reklub/kumitsu-app/storage"
)

type RoundView struct {
	Number        int             `json:"number"`
	Label         string          `json:"label"`
	IsPreliminary bool            `json:"is_preliminary"`
	Matches       []*models.Match `json:"matches"`
}

type CategoryBracketView struct {
	Category     *models.Category   `json:"category"`
	BracketType  models.BracketType `json:"bracket_type"`
	EntrantCount int                `json:"entrant_count"`
	MatchCount   int                `json:"match_count"`
	Rounds       []RoundView        `json:"rounds"`
}

type TournamentBrackets struct {
	TournamentID int                   `json:"tournament_id"`
	MatchCount   int                   `json:"match_count"`
	Categories   []CategoryBracketView `json:"categories"`
}

type BracketSnapshot struct {
	Tournament  *models.Tournament    `json:"tournament"`
	GeneratedAt time.Time             `json:"generated_at"`
	Categories  []CategoryBracketView `json:"categories"`
}

type BracketGeneratedPayload struct {
	TournamentID int   `json:"tournament_id"`
	CategoryIDs  []int `json:"category_ids"`
	MatchCount   int   `json:"match_count"`
}

type BracketService interface {
	// GenerateTournamentBrackets builds every active category of the tournament,
	// numbers all matches phase by phase and replaces any stored matches.
	GenerateTournamentBrackets(ctx context.Context, tournamentID int) (*TournamentBrackets, error)
	// RebuildCategory rebuilds one category and renumbers the whole tournament.
	RebuildCategory(ctx context.Context, tournamentID, categoryID int) (*CategoryBracketView, error)
	GetCategoryBracket(ctx context.Context, tournamentID, categoryID int) (*CategoryBracketView, error)
	ExportBrackets(ctx context.Context, tournamentID int) (*storage.UploadResult, error)
}

type bracketService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	categoryRepo   repositories.CategoryRepository
	matchRepo      repositories.MatchRepository
	archive        storage.BracketArchive
	notifier       Notifier
	locker         *KeyedLocker
	newRand        RandFactory
	logger         *slog.Logger
	now            func() time.Time
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	categoryRepo repositories.CategoryRepository,
	matchRepo repositories.MatchRepository,
	archive storage.BracketArchive,
	notifier Notifier,
	locker *KeyedLocker,
	newRand RandFactory,
	logger *slog.Logger,
) BracketService {
	if archive == nil {
		archive = storage.NewBracketArchive(nil)
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if locker == nil {
		locker = NewKeyedLocker()
	}
	if newRand == nil {
		newRand = NewRandFactory(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		db:             db,
		tournamentRepo: tournamentRepo,
		categoryRepo:   categoryRepo,
		matchRepo:      matchRepo,
		archive:        archive,
		notifier:       notifier,
		locker:         locker,
		newRand:        newRand,
		logger:         logger.With(slog.String("service", "bracket")),
		now:            time.Now,
	}
}

func (s *bracketService) GenerateTournamentBrackets(ctx context.Context, tournamentID int) (*TournamentBrackets, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}

	unlockTournament := s.locker.LockTournament(tournamentID)
	defer unlockTournament()

	categories, err := s.categoryRepo.ListActiveByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of tournament %d: %w", tournamentID, err)
	}
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	categoryIDs := make([]int, len(categories))
	for i, c := range categories {
		categoryIDs[i] = c.ID
	}
	unlockCategories := s.locker.LockCategories(categoryIDs...)
	defer unlockCategories()

	built, err := s.buildCategories(ctx, tournamentID, categories)
	if err != nil {
		return nil, err
	}

	scheduled := brackets.Schedule(built)

	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		for _, c := range categories {
			if err := s.categoryRepo.LockForUpdate(ctx, tx, c.ID); err != nil {
				return handleRepositoryError(err)
			}
			if _, err := s.matchRepo.DeleteByCategory(ctx, tx, c.ID); err != nil {
				return err
			}
		}
		// Categories no longer active keep their matches but must not clash
		// with the fresh numbering.
		leftovers, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID, repositories.MatchFilter{})
		if err != nil {
			return err
		}
		for _, m := range scheduled {
			if err := s.matchRepo.Create(ctx, tx, m); err != nil {
				return handleRepositoryError(err)
			}
		}
		return s.renumberLeftovers(ctx, tx, leftovers, len(scheduled)+1)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save brackets of tournament %d: %w", tournamentID, err)
	}

	s.logger.Info("tournament brackets generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("categories", len(categories)),
		slog.Int("matches", len(scheduled)))

	result := &TournamentBrackets{TournamentID: tournamentID, MatchCount: len(scheduled)}
	for _, c := range categories {
		result.Categories = append(result.Categories, newCategoryBracketView(c, built[c.ID]))
	}

	s.notifier.Publish(tournamentID, live.MessageBracketGenerated, BracketGeneratedPayload{
		TournamentID: tournamentID,
		CategoryIDs:  categoryIDs,
		MatchCount:   len(scheduled),
	})
	return result, nil
}

func (s *bracketService) RebuildCategory(ctx context.Context, tournamentID, categoryID int) (*CategoryBracketView, error) {
	category, err := s.categoryInTournament(ctx, tournamentID, categoryID)
	if err != nil {
		return nil, err
	}

	unlockTournament := s.locker.LockTournament(tournamentID)
	defer unlockTournament()
	unlockCategory := s.locker.LockCategories(categoryID)
	defer unlockCategory()

	built, err := s.buildCategories(ctx, tournamentID, []*models.Category{category})
	if err != nil {
		return nil, err
	}
	rebuilt := built[categoryID]

	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if err := s.categoryRepo.LockForUpdate(ctx, tx, categoryID); err != nil {
			return handleRepositoryError(err)
		}
		if _, err := s.matchRepo.DeleteByCategory(ctx, tx, categoryID); err != nil {
			return err
		}

		others, err := s.categoryRepo.ListActiveByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		stored, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID, repositories.MatchFilter{})
		if err != nil {
			return err
		}

		all := map[int]brackets.BuiltBracket{categoryID: rebuilt}
		for _, other := range others {
			if other.ID == categoryID {
				continue
			}
			restored := brackets.FromMatches(other, stored)
			if restored.MatchCount() > 0 {
				all[other.ID] = restored
			}
		}

		scheduled := brackets.Schedule(all)
		renumbered := make([]*models.Match, 0, len(scheduled))
		for _, m := range scheduled {
			if m.CategoryID == categoryID {
				if err := s.matchRepo.Create(ctx, tx, m); err != nil {
					return handleRepositoryError(err)
				}
				continue
			}
			renumbered = append(renumbered, m)
		}
		if err := s.matchRepo.UpdateMatchNumbers(ctx, tx, renumbered); err != nil {
			return handleRepositoryError(err)
		}

		placed := make(map[int]bool, len(scheduled))
		for _, m := range scheduled {
			placed[m.ID] = true
		}
		var leftovers []*models.Match
		for _, m := range stored {
			if !placed[m.ID] {
				leftovers = append(leftovers, m)
			}
		}
		return s.renumberLeftovers(ctx, tx, leftovers, len(scheduled)+1)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild category %d: %w", categoryID, err)
	}

	s.logger.Info("category bracket rebuilt",
		slog.Int("tournament_id", tournamentID),
		slog.Int("category_id", categoryID),
		slog.Int("matches", rebuilt.MatchCount()))

	s.notifier.Publish(tournamentID, live.MessageBracketGenerated, BracketGeneratedPayload{
		TournamentID: tournamentID,
		CategoryIDs:  []int{categoryID},
		MatchCount:   rebuilt.MatchCount(),
	})

	view := newCategoryBracketView(category, rebuilt)
	return &view, nil
}

func (s *bracketService) GetCategoryBracket(ctx context.Context, tournamentID, categoryID int) (*CategoryBracketView, error) {
	category, err := s.categoryInTournament(ctx, tournamentID, categoryID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByCategory(ctx, nil, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches of category %d: %w", categoryID, err)
	}
	view := newCategoryBracketView(category, brackets.FromMatches(category, matches))
	return &view, nil
}

func (s *bracketService) ExportBrackets(ctx context.Context, tournamentID int) (*storage.UploadResult, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	categories, err := s.categoryRepo.ListActiveByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of tournament %d: %w", tournamentID, err)
	}

	views := make([]CategoryBracketView, len(categories))
	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			matches, err := s.matchRepo.ListByCategory(gCtx, nil, c.ID)
			if err != nil {
				return fmt.Errorf("failed to load matches of category %d: %w", c.ID, err)
			}
			views[i] = newCategoryBracketView(c, brackets.FromMatches(c, matches))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := s.archive.Archive(ctx, tournamentID, BracketSnapshot{
		Tournament:  tournament,
		GeneratedAt: s.now().UTC(),
		Categories:  views,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive brackets of tournament %d: %w", tournamentID, err)
	}
	s.logger.Info("brackets exported", slog.Int("tournament_id", tournamentID), slog.String("key", result.Key))
	return result, nil
}

// buildCategories loads entrants and builds brackets concurrently, one
// goroutine and one random source per category. Match numbers are provisional
// until Schedule runs.
func (s *bracketService) buildCategories(ctx context.Context, tournamentID int, categories []*models.Category) (map[int]brackets.BuiltBracket, error) {
	generators := make([]brackets.BracketGenerator, len(categories))
	for i, c := range categories {
		if !c.BeltRangeValid() {
			return nil, fmt.Errorf("%w: category %d belt range %s to %s is reversed", ErrValidationFailed, c.ID, *c.BeltFrom, *c.BeltTo)
		}
		gen, err := brackets.NewGenerator(c, s.newRand(c.ID))
		if err != nil {
			return nil, fmt.Errorf("category %d: %w", c.ID, err)
		}
		generators[i] = gen
	}

	results := make([]brackets.BuiltBracket, len(categories))
	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			entrants, err := s.categoryRepo.ListEntrants(gCtx, nil, c.ID)
			if err != nil {
				return fmt.Errorf("failed to load entrants of category %d: %w", c.ID, err)
			}
			results[i], _ = generators[i].GenerateBracket(brackets.GenerateBracketParams{
				TournamentID: tournamentID,
				CategoryID:   c.ID,
				Entrants:     entrants,
				StartNumber:  1,
			})
			if len(entrants) < 2 {
				s.logger.Warn("category has too few entrants for a bracket",
					slog.Int("category_id", c.ID), slog.Int("entrants", len(entrants)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	built := make(map[int]brackets.BuiltBracket, len(categories))
	for i, c := range categories {
		built[c.ID] = results[i]
	}
	return built, nil
}

// renumberLeftovers moves matches outside the schedule behind it, keeping
// their relative order.
func (s *bracketService) renumberLeftovers(ctx context.Context, tx *sql.Tx, leftovers []*models.Match, next int) error {
	if len(leftovers) == 0 {
		return nil
	}
	brackets.SortByMatchNumber(leftovers)
	for i, m := range leftovers {
		m.MatchNumber = next + i
	}
	s.logger.Warn("renumbered matches of inactive categories", slog.Int("matches", len(leftovers)))
	return handleRepositoryError(s.matchRepo.UpdateMatchNumbers(ctx, tx, leftovers))
}

func (s *bracketService) categoryInTournament(ctx context.Context, tournamentID, categoryID int) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if category.TournamentID != tournamentID {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func newCategoryBracketView(category *models.Category, b brackets.BuiltBracket) CategoryBracketView {
	view := CategoryBracketView{
		Category:     category,
		BracketType:  category.BracketType,
		EntrantCount: b.EntrantCount,
		MatchCount:   b.MatchCount(),
		Rounds:       make([]RoundView, 0, len(b.Rounds)),
	}
	hasPrelim := b.HasPreliminary()
	for _, r := range b.Rounds {
		matches := append([]*models.Match(nil), r.Matches...)
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].MatchNumber < matches[j].MatchNumber })
		view.Rounds = append(view.Rounds, RoundView{
			Number:        r.Number,
			Label:         models.FormatRoundLabel(r.Number, len(b.Rounds), hasPrelim, category.BracketType),
			IsPreliminary: r.IsPreliminary,
			Matches:       matches,
		})
	}
	return view
}
