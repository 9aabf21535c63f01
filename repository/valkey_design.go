package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/daeho-materials/daeho-web/domains/design"
	"github.com/daeho-materials/daeho-web/infrastructure/valkey"
)

// Key suffixes under the client prefix. The settings document, the history
// list and each backup live in separate keys; per-key atomicity of the
// store is the only concurrency control.
const (
	settingsKey    = "design:settings"
	historyKey     = "design:history"
	backupPrefix   = "design:backup:"
	backupIndexKey = "design:backup:index"
	metadataKey    = "design:migration:meta"
)

// ValkeyDesignStore implements design.Store on top of Valkey. All values
// are JSON documents; none of these keys carry a TTL.
type ValkeyDesignStore struct {
	client *valkey.Client
}

func NewValkeyDesignStore(client *valkey.Client) *ValkeyDesignStore {
	return &ValkeyDesignStore{client: client}
}

func (s *ValkeyDesignStore) GetSettings(ctx context.Context) (*design.Settings, error) {
	raw, err := s.client.GetString(ctx, s.client.Key(settingsKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get design settings: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var settings design.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal design settings: %w", err)
	}
	return &settings, nil
}

func (s *ValkeyDesignStore) PutSettings(ctx context.Context, settings *design.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal design settings: %w", err)
	}
	if err := s.client.SetString(ctx, s.client.Key(settingsKey), string(data), 0); err != nil {
		return fmt.Errorf("failed to save design settings: %w", err)
	}
	return nil
}

// GetHistory returns the full history list, newest first. An absent key is
// an empty history, not an error.
func (s *ValkeyDesignStore) GetHistory(ctx context.Context) ([]design.HistoryEntry, error) {
	raw, err := s.client.GetString(ctx, s.client.Key(historyKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get design history: %w", err)
	}
	if raw == "" {
		return []design.HistoryEntry{}, nil
	}
	var entries []design.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal design history: %w", err)
	}
	return entries, nil
}

func (s *ValkeyDesignStore) PutHistory(ctx context.Context, entries []design.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal design history: %w", err)
	}
	if err := s.client.SetString(ctx, s.client.Key(historyKey), string(data), 0); err != nil {
		return fmt.Errorf("failed to save design history: %w", err)
	}
	return nil
}

func (s *ValkeyDesignStore) GetBackup(ctx context.Context, id string) (*design.MigrationBackup, error) {
	raw, err := s.client.GetString(ctx, s.client.Key(backupPrefix+id))
	if err != nil {
		return nil, fmt.Errorf("failed to get backup %s: %w", id, err)
	}
	if raw == "" {
		return nil, nil
	}
	var backup design.MigrationBackup
	if err := json.Unmarshal([]byte(raw), &backup); err != nil {
		return nil, fmt.Errorf("failed to unmarshal backup %s: %w", id, err)
	}
	return &backup, nil
}

// PutBackup durably writes the backup document first, then adds its id to
// the index. A crash between the two leaves an unindexed but restorable
// backup, never an indexed id without data.
func (s *ValkeyDesignStore) PutBackup(ctx context.Context, backup *design.MigrationBackup) error {
	data, err := json.Marshal(backup)
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := s.client.SetString(ctx, s.client.Key(backupPrefix+backup.ID), string(data), 0); err != nil {
		return fmt.Errorf("failed to save backup: %w", err)
	}

	ids, err := s.backupIndex(ctx)
	if err != nil {
		return err
	}
	ids = append(ids, backup.ID)
	idxData, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal backup index: %w", err)
	}
	if err := s.client.SetString(ctx, s.client.Key(backupIndexKey), string(idxData), 0); err != nil {
		return fmt.Errorf("failed to save backup index: %w", err)
	}
	return nil
}

func (s *ValkeyDesignStore) ListBackups(ctx context.Context) ([]design.MigrationBackup, error) {
	ids, err := s.backupIndex(ctx)
	if err != nil {
		return nil, err
	}
	backups := make([]design.MigrationBackup, 0, len(ids))
	for _, id := range ids {
		backup, err := s.GetBackup(ctx, id)
		if err != nil {
			return nil, err
		}
		if backup != nil {
			backups = append(backups, *backup)
		}
	}
	return backups, nil
}

func (s *ValkeyDesignStore) backupIndex(ctx context.Context) ([]string, error) {
	raw, err := s.client.GetString(ctx, s.client.Key(backupIndexKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get backup index: %w", err)
	}
	if raw == "" {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal backup index: %w", err)
	}
	return ids, nil
}

func (s *ValkeyDesignStore) GetMetadata(ctx context.Context) (*design.MigrationMetadata, error) {
	raw, err := s.client.GetString(ctx, s.client.Key(metadataKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get migration metadata: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var meta design.MigrationMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal migration metadata: %w", err)
	}
	return &meta, nil
}

func (s *ValkeyDesignStore) PutMetadata(ctx context.Context, meta *design.MigrationMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal migration metadata: %w", err)
	}
	if err := s.client.SetString(ctx, s.client.Key(metadataKey), string(data), 0); err != nil {
		return fmt.Errorf("failed to save migration metadata: %w", err)
	}
	return nil
}
