package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/daeho-materials/daeho-web/domains/design"
	pkgError "github.com/daeho-materials/daeho-web/pkg/error"
	"github.com/daeho-materials/daeho-web/validations"
)

// designService owns the canonical settings document. Cache invalidation
// is deliberately not done here; the endpoint layer invalidates and
// re-primes after every successful mutation.
type designService struct {
	store design.Store
}

func NewDesignService(store design.Store) design.IDesignUsecase {
	return &designService{store: store}
}

// LoadSettings returns the canonical document, falling back to the
// documented defaults when nothing has been saved yet or when the store is
// unreachable. Never fails for "not found".
func (s *designService) LoadSettings(ctx context.Context) (design.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		logrus.Warnf("[DesignService] load failed, serving defaults: %v", err)
		return design.DefaultSettings(), nil
	}
	if settings == nil {
		defaults := design.DefaultSettings()
		// Seed so the first save has a base document; best-effort.
		if err := s.store.PutSettings(ctx, &defaults); err != nil {
			logrus.Warnf("[DesignService] seeding defaults failed: %v", err)
		}
		return defaults, nil
	}
	return *settings, nil
}

func (s *designService) SaveSettings(ctx context.Context, settings design.Settings, author, description string) (design.Settings, error) {
	if err := validations.ValidateSettings(ctx, settings); err != nil {
		return design.Settings{}, err
	}

	settings.LastUpdated = time.Now().UTC()

	if err := s.store.PutSettings(ctx, &settings); err != nil {
		return design.Settings{}, pkgError.StorageError(fmt.Sprintf("failed to save settings: %v", err))
	}

	if err := appendHistory(ctx, s.store, design.HistoryEntry{
		ID:          uuid.NewString(),
		Timestamp:   settings.LastUpdated,
		Settings:    settings,
		Author:      normalizeAuthor(author),
		Description: description,
	}); err != nil {
		return design.Settings{}, pkgError.StorageError(fmt.Sprintf("failed to record history: %v", err))
	}

	return settings, nil
}

// ExportSettings serializes the current canonical truth; intentionally
// uncached so a download always reflects the live document.
func (s *designService) ExportSettings(ctx context.Context) (string, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize settings: %w", err)
	}
	return string(data), nil
}

func (s *designService) ImportSettings(ctx context.Context, jsonString, author string) (design.Settings, error) {
	var settings design.Settings
	if err := json.Unmarshal([]byte(jsonString), &settings); err != nil {
		return design.Settings{}, pkgError.ParseError(fmt.Sprintf("invalid JSON: %v", err))
	}

	return s.SaveSettings(ctx, settings, author, "Imported settings")
}

// appendHistory prepends the entry and truncates the log to the most
// recent HistoryLimit entries. Existing entries are never rewritten.
func appendHistory(ctx context.Context, store design.Store, entry design.HistoryEntry) error {
	entries, err := store.GetHistory(ctx)
	if err != nil {
		return err
	}
	entries = append([]design.HistoryEntry{entry}, entries...)
	if len(entries) > design.HistoryLimit {
		entries = entries[:design.HistoryLimit]
	}
	return store.PutHistory(ctx, entries)
}

func normalizeAuthor(author string) string {
	if author == "" {
		return "admin"
	}
	return author
}
