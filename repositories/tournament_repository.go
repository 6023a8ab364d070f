package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reklub/kumitsu-app/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT id, name, start_date, location FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := executor(r.db, exec).QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.StartDate, &t.Location)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament by id %d: %w", id, err)
	}
	return t, nil
}
