package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/daeho-materials/daeho-web/domains/design"
	pkgError "github.com/daeho-materials/daeho-web/pkg/error"
)

type historyService struct {
	store design.Store
}

func NewHistoryService(store design.Store) design.IHistoryUsecase {
	return &historyService{store: store}
}

// List returns one window over the log, newest first. Out-of-range paging
// inputs degrade to defaults instead of slicing out of bounds.
func (s *historyService) List(ctx context.Context, limit, offset int) (design.HistoryPage, error) {
	entries, err := s.store.GetHistory(ctx)
	if err != nil {
		return design.HistoryPage{}, pkgError.StorageError(fmt.Sprintf("failed to load history: %v", err))
	}

	if limit <= 0 {
		limit = design.DefaultHistoryPageSize
	}
	if offset < 0 {
		offset = 0
	}

	total := len(entries)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return design.HistoryPage{
		Entries: entries[start:end],
		Pagination: design.Pagination{
			Limit:   limit,
			Offset:  offset,
			Total:   total,
			HasMore: offset+limit < total,
		},
	}, nil
}

// Rollback re-saves a historical snapshot as canonical and records the
// rollback itself as a new entry, keeping the log strictly append-only.
// Rolling back to a rollback entry is valid.
func (s *historyService) Rollback(ctx context.Context, entryID, author string) (design.Settings, error) {
	entries, err := s.store.GetHistory(ctx)
	if err != nil {
		return design.Settings{}, pkgError.StorageError(fmt.Sprintf("failed to load history: %v", err))
	}

	var target *design.HistoryEntry
	for i := range entries {
		if entries[i].ID == entryID {
			target = &entries[i]
			break
		}
	}
	if target == nil {
		return design.Settings{}, pkgError.NotFoundError(fmt.Sprintf("history entry %s not found", entryID))
	}

	now := time.Now().UTC()
	settings := target.Settings
	settings.LastUpdated = now

	if err := s.store.PutSettings(ctx, &settings); err != nil {
		return design.Settings{}, pkgError.StorageError(fmt.Sprintf("failed to save rollback: %v", err))
	}

	entry := design.HistoryEntry{
		ID:          fmt.Sprintf("rollback-%d", now.UnixMilli()),
		Timestamp:   now,
		Settings:    settings,
		Author:      normalizeAuthor(author),
		Description: fmt.Sprintf("Rolled back to version from %s", target.Timestamp.Format(time.RFC3339)),
	}
	if err := appendHistory(ctx, s.store, entry); err != nil {
		return design.Settings{}, pkgError.StorageError(fmt.Sprintf("failed to record rollback: %v", err))
	}

	return settings, nil
}
