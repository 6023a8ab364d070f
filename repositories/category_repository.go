package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reklub/kumitsu-app/models"
)

var ErrCategoryNotFound = errors.New("category not found")

const categoryColumns = `c.id, c.tournament_id, c.name, c.bracket_type, c.age_min, c.age_max, c.weight_min, c.weight_max,
		c.gender, c.belt_from, c.belt_to, c.settings_json, c.is_active,
		(SELECT COUNT(*) FROM category_entrants ce WHERE ce.category_id = c.id) AS entrant_count`

type CategoryRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Category, error)
	// LockForUpdate takes a row lock on the category for the rest of the transaction.
	LockForUpdate(ctx context.Context, exec SQLExecutor, id int) error
	ListActiveByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Category, error)
	ListEntrants(ctx context.Context, exec SQLExecutor, categoryID int) ([]models.Entrant, error)
	CountEntrantsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c WHERE c.id = $1`
	category, err := scanCategory(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to scan category by id %d: %w", id, err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) LockForUpdate(ctx context.Context, exec SQLExecutor, id int) error {
	var lockedID int
	err := executor(r.db, exec).QueryRowContext(ctx, `SELECT id FROM categories WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to lock category %d: %w", id, err)
	}
	return nil
}

func (r *postgresCategoryRepository) ListActiveByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + `
		FROM categories c
		WHERE c.tournament_id = $1 AND c.is_active
		ORDER BY c.id ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		category, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", scanErr)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during category rows iteration: %w", err)
	}
	return categories, nil
}

// ListEntrants returns the entrants of a category in registration order.
func (r *postgresCategoryRepository) ListEntrants(ctx context.Context, exec SQLExecutor, categoryID int) ([]models.Entrant, error) {
	query := `
		SELECT e.id, e.tournament_id, e.first_name, e.last_name, e.club_name, e.belt_rank, e.created_at
		FROM entrants e
		JOIN category_entrants ce ON ce.entrant_id = e.id
		WHERE ce.category_id = $1
		ORDER BY e.id ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entrants for category %d: %w", categoryID, err)
	}
	defer rows.Close()

	entrants := make([]models.Entrant, 0)
	for rows.Next() {
		var e models.Entrant
		if err := rows.Scan(&e.ID, &e.TournamentID, &e.FirstName, &e.LastName, &e.ClubName, &e.BeltRank, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entrant row: %w", err)
		}
		entrants = append(entrants, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during entrant rows iteration: %w", err)
	}
	return entrants, nil
}

func (r *postgresCategoryRepository) CountEntrantsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	query := `
		SELECT COUNT(DISTINCT ce.entrant_id)
		FROM category_entrants ce
		JOIN categories c ON c.id = ce.category_id
		WHERE c.tournament_id = $1 AND c.is_active`
	var count int
	if err := executor(r.db, exec).QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entrants of tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func scanCategory(s rowScanner) (*models.Category, error) {
	var c models.Category
	err := s.Scan(
		&c.ID,
		&c.TournamentID,
		&c.Name,
		&c.BracketType,
		&c.AgeMin,
		&c.AgeMax,
		&c.WeightMin,
		&c.WeightMax,
		&c.Gender,
		&c.BeltFrom,
		&c.BeltTo,
		&c.SettingsJSON,
		&c.IsActive,
		&c.EntrantCount,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
