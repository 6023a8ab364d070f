package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reklub/kumitsu-app/brackets"
	"github.com/reklub/kumitsu-app/live"
	"github.com/reklub/kumitsu-app/models"
	"github.com/reklub/kumitsu-app/repositories"
)

var testNow = time.Date(2026, 11, 7, 10, 30, 0, 0, time.UTC)

type matchFixture struct {
	svc        MatchService
	mock       sqlmock.Sqlmock
	categories *fakeCategoryRepo
	matches    *memMatchRepo
	notifier   *recordingNotifier
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()
	db, mock := newMockDB(t)
	f := &matchFixture{
		mock: mock,
		categories: &fakeCategoryRepo{
			Categories: map[int]*models.Category{
				1: {ID: 1, TournamentID: 1, BracketType: models.BracketSingleElimination, IsActive: true},
				2: {ID: 2, TournamentID: 1, BracketType: models.BracketRoundRobin, IsActive: true},
			},
			Entrants: map[int][]models.Entrant{1: entrantsFrom(1, 4), 2: entrantsFrom(10, 3)},
		},
		matches:  newMemMatchRepo(),
		notifier: &recordingNotifier{},
	}
	svc := NewMatchService(db, &fakeTournamentRepo{}, f.categories, f.matches, f.notifier, NewKeyedLocker(),
		ScheduleDefaults{Courts: 2, MatchInterval: 15 * time.Minute}, nil)
	svc.(*matchService).now = func() time.Time { return testNow }
	f.svc = svc
	return f
}

// seedKnockout stores a four-entrant knockout: matches 1 and 2 feed final 3.
func (f *matchFixture) seedKnockout() {
	f.matches.add(&models.Match{ID: 1, TournamentID: 1, CategoryID: 1, Round: 1, MatchNumber: 1, Participant1ID: intPtr(1), Participant2ID: intPtr(2), Status: models.MatchStatusScheduled})
	f.matches.add(&models.Match{ID: 2, TournamentID: 1, CategoryID: 1, Round: 1, MatchNumber: 2, Participant1ID: intPtr(3), Participant2ID: intPtr(4), Status: models.MatchStatusScheduled})
	f.matches.add(&models.Match{ID: 3, TournamentID: 1, CategoryID: 1, Round: 2, MatchNumber: 4, Status: models.MatchStatusScheduled})
}

func (f *matchFixture) seedRoundRobin() {
	f.matches.add(&models.Match{ID: 10, TournamentID: 1, CategoryID: 2, Round: 1, MatchNumber: 3, Participant1ID: intPtr(10), Participant2ID: intPtr(11), Status: models.MatchStatusScheduled})
}

func TestRecordResult_AdvancesWinner(t *testing.T) {
	f := newMatchFixture(t)
	f.seedKnockout()
	expectCommits(f.mock, 1)

	out, err := f.svc.RecordResult(context.Background(), 2, RecordResultInput{WinnerID: 4, Score1: 1, Score2: 3})
	require.NoError(t, err)

	assert.Equal(t, brackets.OutcomeAdvanced, out.Advancement)
	assert.Equal(t, models.Slot2, out.Slot)
	require.NotNil(t, out.NextMatch)
	assert.Equal(t, 3, out.NextMatch.ID)

	completed := f.matches.get(2)
	assert.Equal(t, models.MatchStatusCompleted, completed.Status)
	assert.Equal(t, 4, *completed.WinnerID)
	assert.Equal(t, 3, completed.Score2)
	assert.Equal(t, testNow, *completed.ActualEndTime)

	final := f.matches.get(3)
	assert.Nil(t, final.Participant1ID)
	require.NotNil(t, final.Participant2ID)
	assert.Equal(t, 4, *final.Participant2ID)

	assert.Equal(t, []string{live.MessageMatchUpdated, live.MessageSlotFilled}, f.notifier.types())
	slot := f.notifier.messages[1].Payload.(SlotFilledPayload)
	assert.Equal(t, SlotFilledPayload{MatchID: 3, Slot: models.Slot2, EntrantID: 4, FromMatch: 2}, slot)
}

func TestRecordResult_FinalCompletesCategory(t *testing.T) {
	f := newMatchFixture(t)
	f.seedKnockout()
	expectCommits(f.mock, 3)

	_, err := f.svc.RecordResult(context.Background(), 1, RecordResultInput{WinnerID: 1, Score1: 2})
	require.NoError(t, err)
	_, err = f.svc.RecordResult(context.Background(), 2, RecordResultInput{WinnerID: 3, Score1: 2})
	require.NoError(t, err)
	require.True(t, f.matches.get(3).IsReady())

	out, err := f.svc.RecordResult(context.Background(), 3, RecordResultInput{WinnerID: 3, Score2: 1})
	require.NoError(t, err)

	assert.Equal(t, brackets.OutcomeFinal, out.Advancement)
	assert.Nil(t, out.NextMatch)
	types := f.notifier.types()
	require.NotEmpty(t, types)
	assert.Equal(t, live.MessageCategoryCompleted, types[len(types)-1])
	done := f.notifier.messages[len(types)-1].Payload.(CategoryCompletedPayload)
	assert.Equal(t, CategoryCompletedPayload{CategoryID: 1, WinnerID: 3, MatchID: 3}, done)
}

func TestRecordResult_RoundRobinDoesNotAdvance(t *testing.T) {
	f := newMatchFixture(t)
	f.seedKnockout()
	f.seedRoundRobin()
	expectCommits(f.mock, 1)

	out, err := f.svc.RecordResult(context.Background(), 10, RecordResultInput{WinnerID: 11})
	require.NoError(t, err)

	assert.Equal(t, brackets.OutcomeNonAdvancing, out.Advancement)
	assert.Equal(t, []string{live.MessageMatchUpdated}, f.notifier.types())
	final := f.matches.get(3)
	assert.Nil(t, final.Participant1ID)
	assert.Nil(t, final.Participant2ID)
}

func TestRecordResult_SlotTakenConcurrently(t *testing.T) {
	f := newMatchFixture(t)
	f.seedKnockout()
	f.matches.FillSlotErr = repositories.ErrSlotOccupied
	expectCommits(f.mock, 1)

	out, err := f.svc.RecordResult(context.Background(), 1, RecordResultInput{WinnerID: 2})
	require.NoError(t, err)

	assert.Equal(t, brackets.OutcomeSlotTaken, out.Advancement)
	assert.Equal(t, models.MatchStatusCompleted, f.matches.get(1).Status)
	assert.Equal(t, []string{live.MessageMatchUpdated}, f.notifier.types())
}

func TestRecordResult_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		matchID int
		input   RecordResultInput
		prepare func(f *matchFixture)
		wantErr error
		inTx    bool
	}{
		{"negative score", 1, RecordResultInput{WinnerID: 1, Score1: -1}, nil, ErrValidationFailed, false},
		{"unknown match", 99, RecordResultInput{WinnerID: 1}, nil, ErrMatchNotFound, false},
		{"winner not in match", 1, RecordResultInput{WinnerID: 3}, nil, ErrWinnerNotInMatch, true},
		{"match not ready", 3, RecordResultInput{WinnerID: 1}, nil, ErrMatchNotReady, true},
		{
			name:    "already completed",
			matchID: 1,
			input:   RecordResultInput{WinnerID: 1},
			prepare: func(f *matchFixture) {
				m := f.matches.get(1)
				m.Status = models.MatchStatusCompleted
				m.WinnerID = intPtr(2)
				f.matches.add(m)
			},
			wantErr: ErrInvalidMatchTransition,
			inTx:    true,
		},
		{
			name:    "cancelled",
			matchID: 2,
			input:   RecordResultInput{WinnerID: 3},
			prepare: func(f *matchFixture) {
				m := f.matches.get(2)
				m.Status = models.MatchStatusCancelled
				f.matches.add(m)
			},
			wantErr: ErrInvalidMatchTransition,
			inTx:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMatchFixture(t)
			f.seedKnockout()
			if tt.prepare != nil {
				tt.prepare(f)
			}
			if tt.inTx {
				expectRollback(f.mock)
			}

			_, err := f.svc.RecordResult(context.Background(), tt.matchID, tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.types())
			final := f.matches.get(3)
			assert.Nil(t, final.Participant1ID)
			assert.Nil(t, final.Participant2ID)
		})
	}
}

func TestStartAndCancelMatch(t *testing.T) {
	f := newMatchFixture(t)
	f.seedKnockout()
	expectCommits(f.mock, 2)
	expectRollback(f.mock)
	expectRollback(f.mock)

	started, err := f.svc.StartMatch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusInProgress, started.Status)
	assert.Equal(t, testNow, *started.ActualStartTime)

	cancelled, err := f.svc.CancelMatch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCancelled, cancelled.Status)
	assert.Equal(t, testNow, *cancelled.ActualEndTime)
	assert.Equal(t, models.MatchStatusCancelled, f.matches.get(1).Status)

	_, err = f.svc.StartMatch(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidMatchTransition)

	_, err = f.svc.StartMatch(context.Background(), 3)
	assert.ErrorIs(t, err, ErrMatchNotReady)

	assert.Equal(t, []string{live.MessageMatchUpdated, live.MessageMatchUpdated}, f.notifier.types())
}

func TestStartTournament_AssignsCourtsAndTimes(t *testing.T) {
	f := newMatchFixture(t)
	f.seedKnockout()
	f.seedRoundRobin()
	done := f.matches.get(1)
	done.Status = models.MatchStatusCompleted
	f.matches.add(done)
	expectCommits(f.mock, 1)

	start := time.Date(2026, 11, 7, 9, 0, 0, 0, time.UTC)
	courts := 3
	scheduled, err := f.svc.StartTournament(context.Background(), 1, StartTournamentInput{StartTime: &start, Courts: &courts})
	require.NoError(t, err)

	require.Len(t, scheduled, 2)
	assert.Equal(t, 2, scheduled[0].ID)
	assert.Equal(t, 10, scheduled[1].ID)

	second := f.matches.get(2)
	require.NotNil(t, second.Court)
	assert.Equal(t, "Court 1", *second.Court)
	assert.Equal(t, start, *second.ScheduledTime)

	rr := f.matches.get(10)
	assert.Equal(t, "Court 2", *rr.Court)
	assert.Equal(t, start.Add(15*time.Minute), *rr.ScheduledTime)

	assert.Nil(t, f.matches.get(1).Court, "completed matches are not rescheduled")
	assert.Nil(t, f.matches.get(3).Court, "later rounds are not scheduled")

	require.Equal(t, []string{live.MessageTournamentStarted}, f.notifier.types())
	payload := f.notifier.messages[0].Payload.(TournamentStartedPayload)
	assert.Equal(t, 2, payload.ScheduledMatches)
}

func TestStartTournament_DefaultsAndValidation(t *testing.T) {
	f := newMatchFixture(t)
	f.seedKnockout()
	expectCommits(f.mock, 1)

	scheduled, err := f.svc.StartTournament(context.Background(), 1, StartTournamentInput{})
	require.NoError(t, err)
	require.Len(t, scheduled, 2)
	// The tournament start date lies before testNow, so scheduling starts now.
	assert.Equal(t, testNow, *scheduled[0].ScheduledTime)
	assert.Equal(t, testNow.Add(15*time.Minute), *scheduled[1].ScheduledTime)
	assert.Equal(t, "Court 2", *scheduled[1].Court)

	zero := 0
	_, err = f.svc.StartTournament(context.Background(), 1, StartTournamentInput{Courts: &zero})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.svc.StartTournament(context.Background(), 1, StartTournamentInput{IntervalMinutes: &zero})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestListAndCurrentMatches(t *testing.T) {
	f := newMatchFixture(t)
	f.seedKnockout()
	f.seedRoundRobin()
	running := f.matches.get(2)
	running.Status = models.MatchStatusInProgress
	f.matches.add(running)
	finished := f.matches.get(1)
	finished.Status = models.MatchStatusCompleted
	f.matches.add(finished)

	round := 1
	list, err := f.svc.ListMatches(context.Background(), 1, MatchListFilter{Round: &round})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	status := models.MatchStatusInProgress
	list, err = f.svc.ListMatches(context.Background(), 1, MatchListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ID)

	bad := models.MatchStatus("paused")
	_, err = f.svc.ListMatches(context.Background(), 1, MatchListFilter{Status: &bad})
	assert.ErrorIs(t, err, ErrValidationFailed)

	current, err := f.svc.CurrentMatches(context.Background(), 1)
	require.NoError(t, err)
	ids := make([]int, 0)
	for _, m := range current {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []int{2, 3, 10}, ids)
}

func TestGetStats(t *testing.T) {
	f := newMatchFixture(t)
	f.seedKnockout()
	f.seedRoundRobin()
	done := f.matches.get(1)
	done.Status = models.MatchStatusCompleted
	f.matches.add(done)

	stats, err := f.svc.GetStats(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, &models.TournamentStats{
		TournamentID:     1,
		TotalMatches:     4,
		CompletedMatches: 1,
		ScheduledMatches: 3,
		TotalEntrants:    7,
		CategoriesCount:  2,
	}, stats)
}

func TestTournamentPlaysThroughToChampion(t *testing.T) {
	db, mock := newMockDB(t)
	categories := &fakeCategoryRepo{
		Categories: map[int]*models.Category{
			1: {ID: 1, TournamentID: 1, BracketType: models.BracketSingleElimination, IsActive: true},
		},
		Entrants: map[int][]models.Entrant{1: entrantsFrom(1, 11)},
	}
	matches := newMemMatchRepo()
	notifier := &recordingNotifier{}
	locker := NewKeyedLocker()
	seed := uint64(2026)
	bracketSvc := NewBracketService(db, &fakeTournamentRepo{}, categories, matches, nil, notifier, locker, NewRandFactory(&seed), nil)
	matchSvc := NewMatchService(db, &fakeTournamentRepo{}, categories, matches, notifier, locker, ScheduleDefaults{}, nil)

	expectCommits(mock, 1+10)
	_, err := bracketSvc.GenerateTournamentBrackets(context.Background(), 1)
	require.NoError(t, err)

	// Play matches strictly in match number order, as the venue does.
	var last *ResultOutcome
	for _, m := range matches.all() {
		current := matches.get(m.ID)
		require.True(t, current.IsReady(), "match %d must be ready when its turn comes", current.MatchNumber)
		last, err = matchSvc.RecordResult(context.Background(), current.ID, RecordResultInput{WinnerID: *current.Participant1ID, Score1: 1})
		require.NoError(t, err)
	}

	require.NotNil(t, last)
	assert.Equal(t, brackets.OutcomeFinal, last.Advancement)
	types := notifier.types()
	assert.Equal(t, live.MessageCategoryCompleted, types[len(types)-1])
}

func TestGetStandings(t *testing.T) {
	f := newMatchFixture(t)
	f.seedRoundRobin()
	expectCommits(f.mock, 1)

	_, err := f.svc.RecordResult(context.Background(), 10, RecordResultInput{WinnerID: 11, Score1: 0, Score2: 2})
	require.NoError(t, err)

	standings, err := f.svc.GetStandings(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, standings, 3)

	ids := []int{standings[0].EntrantID, standings[1].EntrantID, standings[2].EntrantID}
	assert.Equal(t, []int{11, 12, 10}, ids)
	assert.Equal(t, models.PointsPerWin, standings[0].Points)
	assert.Equal(t, 0, standings[1].MatchesPlayed)
	assert.Equal(t, -2, standings[2].ScoreDifference)

	_, err = f.svc.GetStandings(context.Background(), 2, 2)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	_, err = f.svc.GetStandings(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
