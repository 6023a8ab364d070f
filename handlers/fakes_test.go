package handlers

import (
	"context"
	"errors"

	"github.com/reklub/kumitsu-app/models"
	"github.com/reklub/kumitsu-app/services"
	"github.com/reklub/kumitsu-app/storage"
)

var errNotStubbed = errors.New("not stubbed")

type fakeBracketService struct {
	GenerateFunc func(ctx context.Context, tournamentID int) (*services.TournamentBrackets, error)
	RebuildFunc  func(ctx context.Context, tournamentID, categoryID int) (*services.CategoryBracketView, error)
	GetFunc      func(ctx context.Context, tournamentID, categoryID int) (*services.CategoryBracketView, error)
	ExportFunc   func(ctx context.Context, tournamentID int) (*storage.UploadResult, error)
}

func (f *fakeBracketService) GenerateTournamentBrackets(ctx context.Context, tournamentID int) (*services.TournamentBrackets, error) {
	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, tournamentID)
	}
	return nil, errNotStubbed
}

func (f *fakeBracketService) RebuildCategory(ctx context.Context, tournamentID, categoryID int) (*services.CategoryBracketView, error) {
	if f.RebuildFunc != nil {
		return f.RebuildFunc(ctx, tournamentID, categoryID)
	}
	return nil, errNotStubbed
}

func (f *fakeBracketService) GetCategoryBracket(ctx context.Context, tournamentID, categoryID int) (*services.CategoryBracketView, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, tournamentID, categoryID)
	}
	return nil, errNotStubbed
}

func (f *fakeBracketService) ExportBrackets(ctx context.Context, tournamentID int) (*storage.UploadResult, error) {
	if f.ExportFunc != nil {
		return f.ExportFunc(ctx, tournamentID)
	}
	return nil, errNotStubbed
}

type fakeMatchService struct {
	ListFunc            func(ctx context.Context, tournamentID int, filter services.MatchListFilter) ([]*models.Match, error)
	CurrentFunc         func(ctx context.Context, tournamentID int) ([]*models.Match, error)
	StartMatchFunc      func(ctx context.Context, matchID int) (*models.Match, error)
	CancelMatchFunc     func(ctx context.Context, matchID int) (*models.Match, error)
	RecordResultFunc    func(ctx context.Context, matchID int, input services.RecordResultInput) (*services.ResultOutcome, error)
	StartTournamentFunc func(ctx context.Context, tournamentID int, input services.StartTournamentInput) ([]*models.Match, error)
	StatsFunc           func(ctx context.Context, tournamentID int) (*models.TournamentStats, error)
	StandingsFunc       func(ctx context.Context, tournamentID, categoryID int) ([]models.Standing, error)
}

func (f *fakeMatchService) ListMatches(ctx context.Context, tournamentID int, filter services.MatchListFilter) ([]*models.Match, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, tournamentID, filter)
	}
	return nil, errNotStubbed
}

func (f *fakeMatchService) CurrentMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if f.CurrentFunc != nil {
		return f.CurrentFunc(ctx, tournamentID)
	}
	return nil, errNotStubbed
}

func (f *fakeMatchService) StartMatch(ctx context.Context, matchID int) (*models.Match, error) {
	if f.StartMatchFunc != nil {
		return f.StartMatchFunc(ctx, matchID)
	}
	return nil, errNotStubbed
}

func (f *fakeMatchService) CancelMatch(ctx context.Context, matchID int) (*models.Match, error) {
	if f.CancelMatchFunc != nil {
		return f.CancelMatchFunc(ctx, matchID)
	}
	return nil, errNotStubbed
}

func (f *fakeMatchService) RecordResult(ctx context.Context, matchID int, input services.RecordResultInput) (*services.ResultOutcome, error) {
	if f.RecordResultFunc != nil {
		return f.RecordResultFunc(ctx, matchID, input)
	}
	return nil, errNotStubbed
}

func (f *fakeMatchService) StartTournament(ctx context.Context, tournamentID int, input services.StartTournamentInput) ([]*models.Match, error) {
	if f.StartTournamentFunc != nil {
		return f.StartTournamentFunc(ctx, tournamentID, input)
	}
	return nil, errNotStubbed
}

func (f *fakeMatchService) GetStats(ctx context.Context, tournamentID int) (*models.TournamentStats, error) {
	if f.StatsFunc != nil {
		return f.StatsFunc(ctx, tournamentID)
	}
	return nil, errNotStubbed
}

func (f *fakeMatchService) GetStandings(ctx context.Context, tournamentID, categoryID int) ([]models.Standing, error) {
	if f.StandingsFunc != nil {
		return f.StandingsFunc(ctx, tournamentID, categoryID)
	}
	return nil, errNotStubbed
}
