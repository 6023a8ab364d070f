package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/reklub/kumitsu-app/models"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchCategoryInvalid    = errors.New("match category conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchNumberConflict     = errors.New("match number already used in tournament")
	ErrSlotOccupied            = errors.New("match slot already occupied")
)

const matchColumns = `id, tournament_id, category_id, round, match_number, participant1_id, participant2_id,
		winner_id, status, score1, score2, court, scheduled_time, actual_start_time, actual_end_time, created_at`

type MatchFilter struct {
	CategoryID *int
	Status     *models.MatchStatus
	Round      *int
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error)
	ListByCategory(ctx context.Context, exec SQLExecutor, categoryID int) ([]*models.Match, error)
	ListByCategoryRounds(ctx context.Context, exec SQLExecutor, categoryID int, rounds []int) ([]*models.Match, error)
	ListCurrent(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	DeleteByCategory(ctx context.Context, exec SQLExecutor, categoryID int) (int64, error)
	UpdateMatchNumbers(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	// FillSlot writes the entrant only if the slot is still empty and returns
	// ErrSlotOccupied otherwise.
	FillSlot(ctx context.Context, exec SQLExecutor, matchID int, slot models.Slot, entrantID int) error
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error
	CountByStatus(ctx context.Context, exec SQLExecutor, tournamentID int) (map[models.MatchStatus]int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, category_id, round, match_number, participant1_id, participant2_id,
			 winner_id, status, score1, score2, court, scheduled_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		match.TournamentID,
		match.CategoryID,
		match.Round,
		match.MatchNumber,
		match.Participant1ID,
		match.Participant2ID,
		match.WinnerID,
		match.Status,
		match.Score1,
		match.Score2,
		match.Court,
		match.ScheduledTime,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return handleMatchError(err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.getOne(ctx, exec, query, id)
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, exec, query, id)
}

func (r *postgresMatchRepository) getOne(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Match, error) {
	match, err := scanMatch(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	addFilter := func(column string, value interface{}) {
		args = append(args, value)
		queryBuilder.WriteString(" AND " + column + " = $" + strconv.Itoa(len(args)))
	}
	if filter.CategoryID != nil {
		addFilter("category_id", *filter.CategoryID)
	}
	if filter.Round != nil {
		addFilter("round", *filter.Round)
	}
	if filter.Status != nil {
		addFilter("status", *filter.Status)
	}
	queryBuilder.WriteString(" ORDER BY match_number ASC, id ASC")

	return r.list(ctx, exec, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) ListByCategory(ctx context.Context, exec SQLExecutor, categoryID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE category_id = $1 ORDER BY round ASC, match_number ASC, id ASC`
	return r.list(ctx, exec, query, categoryID)
}

func (r *postgresMatchRepository) ListByCategoryRounds(ctx context.Context, exec SQLExecutor, categoryID int, rounds []int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE category_id = $1 AND round = ANY($2)
		ORDER BY round ASC, match_number ASC, id ASC`
	return r.list(ctx, exec, query, categoryID, pq.Array(toInt64s(rounds)))
}

func (r *postgresMatchRepository) ListCurrent(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE tournament_id = $1 AND status IN ($2, $3)
		ORDER BY scheduled_time ASC NULLS LAST, match_number ASC`
	return r.list(ctx, exec, query, tournamentID, models.MatchStatusScheduled, models.MatchStatusInProgress)
}

func (r *postgresMatchRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) DeleteByCategory(ctx context.Context, exec SQLExecutor, categoryID int) (int64, error) {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM matches WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches of category %d: %w", categoryID, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return deleted, nil
}

// UpdateMatchNumbers rewrites the numbers of the given matches in one
// statement. Uniqueness is checked at commit, so numbers may be swapped freely
// inside a transaction.
func (r *postgresMatchRepository) UpdateMatchNumbers(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	ids := make([]int64, len(matches))
	numbers := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = int64(m.ID)
		numbers[i] = int64(m.MatchNumber)
	}

	query := `
		UPDATE matches AS m
		SET match_number = v.match_number
		FROM unnest($1::int[], $2::int[]) AS v(id, match_number)
		WHERE m.id = v.id`
	result, err := executor(r.db, exec).ExecContext(ctx, query, pq.Array(ids), pq.Array(numbers))
	if err != nil {
		return handleMatchError(err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if updated != int64(len(matches)) {
		return fmt.Errorf("renumbered %d of %d matches: %w", updated, len(matches), ErrMatchNotFound)
	}
	return nil
}

func (r *postgresMatchRepository) FillSlot(ctx context.Context, exec SQLExecutor, matchID int, slot models.Slot, entrantID int) error {
	var column string
	switch slot {
	case models.Slot1:
		column = "participant1_id"
	case models.Slot2:
		column = "participant2_id"
	default:
		return fmt.Errorf("invalid slot %d", slot)
	}

	query := `UPDATE matches SET ` + column + ` = $1 WHERE id = $2 AND ` + column + ` IS NULL`
	result, err := executor(r.db, exec).ExecContext(ctx, query, entrantID, matchID)
	if err != nil {
		return handleMatchError(err)
	}
	return checkAffectedRows(result, ErrSlotOccupied)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET winner_id = $1, score1 = $2, score2 = $3, status = $4, actual_end_time = $5
		WHERE id = $6`
	result, err := executor(r.db, exec).ExecContext(ctx, query,
		match.WinnerID, match.Score1, match.Score2, match.Status, match.ActualEndTime, match.ID)
	if err != nil {
		return handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `UPDATE matches SET status = $1, actual_start_time = $2, actual_end_time = $3 WHERE id = $4`
	result, err := executor(r.db, exec).ExecContext(ctx, query,
		match.Status, match.ActualStartTime, match.ActualEndTime, match.ID)
	if err != nil {
		return fmt.Errorf("failed to update status of match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `UPDATE matches SET court = $1, scheduled_time = $2 WHERE id = $3`
	result, err := executor(r.db, exec).ExecContext(ctx, query, match.Court, match.ScheduledTime, match.ID)
	if err != nil {
		return fmt.Errorf("failed to update schedule of match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountByStatus(ctx context.Context, exec SQLExecutor, tournamentID int) (map[models.MatchStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM matches WHERE tournament_id = $1 GROUP BY status`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	counts := make(map[models.MatchStatus]int)
	for rows.Next() {
		var status models.MatchStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan match count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match count iteration: %w", err)
	}
	return counts, nil
}

func scanMatch(s rowScanner) (*models.Match, error) {
	var m models.Match
	err := s.Scan(
		&m.ID,
		&m.TournamentID,
		&m.CategoryID,
		&m.Round,
		&m.MatchNumber,
		&m.Participant1ID,
		&m.Participant2ID,
		&m.WinnerID,
		&m.Status,
		&m.Score1,
		&m.Score2,
		&m.Court,
		&m.ScheduledTime,
		&m.ActualStartTime,
		&m.ActualEndTime,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func handleMatchError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505": // unique_violation
		if pqErr.Constraint == "matches_tournament_id_match_number_key" {
			return ErrMatchNumberConflict
		}
	case "23503": // foreign_key_violation
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey", "matches_category_id_fkey":
			return ErrMatchCategoryInvalid
		case "matches_participant1_id_fkey", "matches_participant2_id_fkey", "matches_winner_id_fkey":
			return ErrMatchParticipantInvalid
		}
	}
	return err
}

func toInt64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}
