package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrArchiveDisabled = errors.New("bracket archive is not configured")

// BracketArchive stores JSON snapshots of tournament brackets.
type BracketArchive interface {
	Archive(ctx context.Context, tournamentID int, snapshot any) (*UploadResult, error)
}

// ArchiveKey is the object key of a tournament's latest snapshot.
func ArchiveKey(tournamentID int) string {
	return fmt.Sprintf("tournaments/%d/brackets.json", tournamentID)
}

type uploaderArchive struct {
	uploader FileUploader
}

func NewBracketArchive(uploader FileUploader) BracketArchive {
	if uploader == nil {
		return noopArchive{}
	}
	return &uploaderArchive{uploader: uploader}
}

func (a *uploaderArchive) Archive(ctx context.Context, tournamentID int, snapshot any) (*UploadResult, error) {
	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket snapshot: %w", err)
	}
	return a.uploader.Upload(ctx, ArchiveKey(tournamentID), "application/json", bytes.NewReader(body))
}

type noopArchive struct{}

func (noopArchive) Archive(context.Context, int, any) (*UploadResult, error) {
	return nil, ErrArchiveDisabled
}
