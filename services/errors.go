package services

import (
	"errors"

	"github.com/reklub/kumitsu-app/brackets"
	"github.com/reklub/kumitsu-app/repositories"
	"github.com/reklub/kumitsu-app/storage"
)

var (
	ErrValidationFailed = errors.New("validation failed")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrMatchNotFound      = errors.New("match not found")

	ErrNoCategories           = errors.New("tournament has no active categories")
	ErrUnsupportedBracketType = brackets.ErrUnsupportedBracketType
	ErrInvalidMatchTransition = errors.New("invalid match status transition")
	ErrWinnerNotInMatch       = errors.New("winner is not a participant of the match")
	ErrMatchNotReady          = errors.New("match does not have both participants yet")
	ErrMatchNumberConflict    = errors.New("match number conflict")

	ErrArchiveDisabled = storage.ErrArchiveDisabled
)

// handleRepositoryError translates repository sentinels into service ones and
// passes everything else through.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchNumberConflict):
		return ErrMatchNumberConflict
	case errors.Is(err, repositories.ErrMatchCategoryInvalid), errors.Is(err, repositories.ErrMatchParticipantInvalid):
		return ErrValidationFailed
	default:
		return err
	}
}
