package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reklub/kumitsu-app/models"
	"github.com/reklub/kumitsu-app/repositories"
	"github.com/reklub/kumitsu-app/storage"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func expectCommits(mock sqlmock.Sqlmock, n int) {
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
}

func expectRollback(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

type fakeTournamentRepo struct {
	GetByIDFunc func(ctx context.Context, id int) (*models.Tournament, error)
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return &models.Tournament{ID: id, Name: "Open", StartDate: time.Date(2026, 11, 7, 9, 0, 0, 0, time.UTC)}, nil
}

type fakeCategoryRepo struct {
	Categories map[int]*models.Category
	Entrants   map[int][]models.Entrant

	ListEntrantsFunc func(ctx context.Context, categoryID int) ([]models.Entrant, error)
	locked           []int
	mu               sync.Mutex
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Category, error) {
	c, ok := f.Categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	clone := *c
	clone.EntrantCount = len(f.Entrants[id])
	return &clone, nil
}

func (f *fakeCategoryRepo) LockForUpdate(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := f.Categories[id]; !ok {
		return repositories.ErrCategoryNotFound
	}
	f.mu.Lock()
	f.locked = append(f.locked, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeCategoryRepo) ListActiveByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Category, error) {
	out := make([]*models.Category, 0)
	for _, c := range f.Categories {
		if c.TournamentID == tournamentID && c.IsActive {
			clone, _ := f.GetByID(ctx, exec, c.ID)
			out = append(out, clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategoryRepo) ListEntrants(ctx context.Context, _ repositories.SQLExecutor, categoryID int) ([]models.Entrant, error) {
	if f.ListEntrantsFunc != nil {
		return f.ListEntrantsFunc(ctx, categoryID)
	}
	return append([]models.Entrant(nil), f.Entrants[categoryID]...), nil
}

func (f *fakeCategoryRepo) CountEntrantsByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int, error) {
	total := 0
	for id, entrants := range f.Entrants {
		if c, ok := f.Categories[id]; ok && c.TournamentID == tournamentID && c.IsActive {
			total += len(entrants)
		}
	}
	return total, nil
}

// memMatchRepo keeps matches in memory and hands out copies, like rows read
// from a database.
type memMatchRepo struct {
	mu      sync.Mutex
	nextID  int
	matches map[int]*models.Match

	CreateErr   error
	FillSlotErr error
}

func newMemMatchRepo() *memMatchRepo {
	return &memMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func cloneMatch(m *models.Match) *models.Match {
	c := *m
	for _, p := range []**int{&c.Participant1ID, &c.Participant2ID, &c.WinnerID} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return &c
}

func (r *memMatchRepo) add(m *models.Match) *models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == 0 {
		m.ID = r.nextID
	}
	if m.ID >= r.nextID {
		r.nextID = m.ID + 1
	}
	r.matches[m.ID] = cloneMatch(m)
	return m
}

func (r *memMatchRepo) get(id int) *models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.matches[id]; ok {
		return cloneMatch(m)
	}
	return nil
}

func (r *memMatchRepo) all() []*models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, cloneMatch(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchNumber != out[j].MatchNumber {
			return out[i].MatchNumber < out[j].MatchNumber
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *memMatchRepo) filter(keep func(m *models.Match) bool) []*models.Match {
	out := make([]*models.Match, 0)
	for _, m := range r.all() {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func (r *memMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	match.ID = 0
	match.CreatedAt = time.Now()
	r.add(match)
	return nil
}

func (r *memMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	if m := r.get(id); m != nil {
		return m, nil
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *memMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *memMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, f repositories.MatchFilter) ([]*models.Match, error) {
	return r.filter(func(m *models.Match) bool {
		return m.TournamentID == tournamentID &&
			(f.CategoryID == nil || m.CategoryID == *f.CategoryID) &&
			(f.Round == nil || m.Round == *f.Round) &&
			(f.Status == nil || m.Status == *f.Status)
	}), nil
}

func (r *memMatchRepo) ListByCategory(_ context.Context, _ repositories.SQLExecutor, categoryID int) ([]*models.Match, error) {
	out := r.filter(func(m *models.Match) bool { return m.CategoryID == categoryID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (r *memMatchRepo) ListByCategoryRounds(_ context.Context, _ repositories.SQLExecutor, categoryID int, rounds []int) ([]*models.Match, error) {
	wanted := make(map[int]bool)
	for _, round := range rounds {
		wanted[round] = true
	}
	out := r.filter(func(m *models.Match) bool { return m.CategoryID == categoryID && wanted[m.Round] })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (r *memMatchRepo) ListCurrent(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	return r.filter(func(m *models.Match) bool {
		return m.TournamentID == tournamentID &&
			(m.Status == models.MatchStatusScheduled || m.Status == models.MatchStatusInProgress)
	}), nil
}

func (r *memMatchRepo) DeleteByCategory(_ context.Context, _ repositories.SQLExecutor, categoryID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, m := range r.matches {
		if m.CategoryID == categoryID {
			delete(r.matches, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memMatchRepo) UpdateMatchNumbers(_ context.Context, _ repositories.SQLExecutor, matches []*models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range matches {
		stored, ok := r.matches[m.ID]
		if !ok {
			return repositories.ErrMatchNotFound
		}
		stored.MatchNumber = m.MatchNumber
	}
	return nil
}

func (r *memMatchRepo) FillSlot(_ context.Context, _ repositories.SQLExecutor, matchID int, slot models.Slot, entrantID int) error {
	if r.FillSlotErr != nil {
		return r.FillSlotErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.matches[matchID]
	if !ok || !stored.SetSlotParticipant(slot, entrantID) {
		return repositories.ErrSlotOccupied
	}
	return nil
}

func (r *memMatchRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	return r.update(match.ID, func(stored *models.Match) {
		stored.WinnerID = match.WinnerID
		stored.Score1 = match.Score1
		stored.Score2 = match.Score2
		stored.Status = match.Status
		stored.ActualEndTime = match.ActualEndTime
	})
}

func (r *memMatchRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	return r.update(match.ID, func(stored *models.Match) {
		stored.Status = match.Status
		stored.ActualStartTime = match.ActualStartTime
		stored.ActualEndTime = match.ActualEndTime
	})
}

func (r *memMatchRepo) UpdateSchedule(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	return r.update(match.ID, func(stored *models.Match) {
		stored.Court = match.Court
		stored.ScheduledTime = match.ScheduledTime
	})
}

func (r *memMatchRepo) update(id int, apply func(stored *models.Match)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	apply(stored)
	r.matches[id] = cloneMatch(stored)
	return nil
}

func (r *memMatchRepo) CountByStatus(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (map[models.MatchStatus]int, error) {
	counts := make(map[models.MatchStatus]int)
	for _, m := range r.all() {
		if m.TournamentID == tournamentID {
			counts[m.Status]++
		}
	}
	return counts, nil
}

type published struct {
	TournamentID int
	Type         string
	Payload      any
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []published
}

func (n *recordingNotifier) Publish(tournamentID int, messageType string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, published{tournamentID, messageType, payload})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	for i, m := range n.messages {
		out[i] = m.Type
	}
	return out
}

type fakeArchive struct {
	ArchiveFunc func(ctx context.Context, tournamentID int, snapshot any) (*storage.UploadResult, error)
}

func (f *fakeArchive) Archive(ctx context.Context, tournamentID int, snapshot any) (*storage.UploadResult, error) {
	return f.ArchiveFunc(ctx, tournamentID, snapshot)
}

// entrantsFrom returns n entrants with consecutive IDs and fake but stable
// names, clubs and belts.
func entrantsFrom(firstID, n int) []models.Entrant {
	faker := gofakeit.New(uint64(firstID))
	belts := models.BeltRanks()
	out := make([]models.Entrant, n)
	for i := range out {
		club := faker.Company()
		belt := belts[faker.Number(0, len(belts)-1)].Rank
		out[i] = models.Entrant{
			ID:           firstID + i,
			TournamentID: 1,
			FirstName:    faker.FirstName(),
			LastName:     faker.LastName(),
			ClubName:     &club,
			BeltRank:     &belt,
		}
	}
	return out
}

func intPtr(v int) *int {
	return &v
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
