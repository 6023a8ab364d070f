package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/reklub/kumitsu-app/repositories"
)

// Notifier pushes live updates to clients following a tournament.
type Notifier interface {
	Publish(tournamentID int, messageType string, payload any)
}

type noopNotifier struct{}

func (noopNotifier) Publish(int, string, any) {}

// RandFactory returns the random source used to seed one category's bracket.
// Every call must return a source that is not shared with other goroutines.
type RandFactory func(categoryID int) *rand.Rand

// NewRandFactory makes builds reproducible when seed is set: the same seed and
// category always produce the same shuffle, however builds are scheduled.
func NewRandFactory(seed *uint64) RandFactory {
	if seed == nil {
		return func(int) *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	s := *seed
	return func(categoryID int) *rand.Rand {
		return rand.New(rand.NewPCG(s, uint64(categoryID)))
	}
}

// KeyedLocker serializes work per key inside the process. Locks for
// tournaments and categories live in separate key spaces.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *KeyedLocker) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// LockTournament must be taken before any category lock of the same tournament.
func (l *KeyedLocker) LockTournament(tournamentID int) func() {
	m := l.get(fmt.Sprintf("tournament:%d", tournamentID))
	m.Lock()
	return m.Unlock
}

// LockCategories locks the categories in ascending ID order and returns a
// function releasing all of them.
func (l *KeyedLocker) LockCategories(categoryIDs ...int) func() {
	ids := append([]int(nil), categoryIDs...)
	sort.Ints(ids)
	held := make([]*sync.Mutex, 0, len(ids))
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		m := l.get(fmt.Sprintf("category:%d", id))
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// withTx runs fn in a transaction, committing when it returns nil and rolling
// back on error or panic.
func withTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) (txErr error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", handleRepositoryError(repositories.TranslateCommitError(cErr)))
		}
	}()

	txErr = fn(tx)
	return txErr
}
