package design

import (
	"context"
	"time"
)

const (
	// CurrentSchemaVersion is the single source of truth for "latest schema",
	// consumed by both the settings validator and the migration engine.
	CurrentSchemaVersion = "2.0"

	// HistoryLimit caps the append-only history log; oldest entries are
	// silently evicted once exceeded.
	HistoryLimit = 50

	// DefaultHistoryPageSize is used when a list request carries no limit.
	DefaultHistoryPageSize = 20
)

// Settings is the canonical, single-document record of site-wide visual
// configuration. Exactly one live instance exists.
type Settings struct {
	Version      string                   `json:"version"`
	Sections     map[string]SectionConfig `json:"sections"`
	ProductCards *ProductCardConfig       `json:"productCards"`
	LastUpdated  time.Time                `json:"lastUpdated"`
}

// SectionConfig is the visual configuration of one page section.
type SectionConfig struct {
	BackgroundType  string `json:"backgroundType"` // color | image | video | gradient
	BackgroundValue string `json:"backgroundValue"`
	Opacity         int    `json:"opacity"` // 0-100
	Tone            string `json:"tone"`    // light | dark
}

// ProductCardConfig styles the product card grid.
type ProductCardConfig struct {
	Style        string `json:"style"` // flat | elevated | outlined
	Columns      int    `json:"columns"`
	AccentColor  string `json:"accentColor"`
	TitleFont    string `json:"titleFont"`
	BorderRadius int    `json:"borderRadius"`
	HoverEffect  string `json:"hoverEffect"`
}

// HistoryEntry is an immutable snapshot of Settings plus provenance
// metadata. Entries are never mutated once created.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Settings    Settings  `json:"settings"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
}

// Pagination describes one window over the history log.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// HistoryPage is one paginated slice of the history log, newest first.
type HistoryPage struct {
	Entries    []HistoryEntry `json:"entries"`
	Pagination Pagination     `json:"pagination"`
}

// MigrationBackup is a pre-migration snapshot retained for recovery,
// distinct from the general history log.
type MigrationBackup struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	SourceVersion string    `json:"source_version"`
	Settings      Settings  `json:"settings"`
}

// MigrationMetadata records the most recent migration or restore.
type MigrationMetadata struct {
	FromVersion string    `json:"from_version"`
	ToVersion   string    `json:"to_version"`
	Timestamp   time.Time `json:"timestamp"`
	BackupID    string    `json:"backup_id,omitempty"`
	Author      string    `json:"author"`
	Action      string    `json:"action"` // migrate | restore
}

// MigrationResult is returned by a migrate call.
type MigrationResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	FromVersion string `json:"from_version"`
	ToVersion   string `json:"to_version"`
	BackupID    string `json:"backup_id,omitempty"`
}

// SaveRequest is the PUT settings payload.
type SaveRequest struct {
	Settings    Settings `json:"settings"`
	Author      string   `json:"author"`
	Description string   `json:"description,omitempty"`
}

// ImportRequest is the import payload; SettingsJSON is parsed and
// validated before anything is written.
type ImportRequest struct {
	SettingsJSON string `json:"settings_json"`
	Author       string `json:"author"`
}

// RollbackRequest identifies the history entry to restore.
type RollbackRequest struct {
	EntryID string `json:"entry_id"`
	Author  string `json:"author"`
}

// MigrateRequest triggers a migration or a restore from backup.
type MigrateRequest struct {
	Action   string `json:"action"` // migrate | restore
	BackupID string `json:"backup_id,omitempty"`
	Author   string `json:"author"`
}

// Store is the durable persistence contract for the design document and
// its derived records. The KV store behind it is the sole source of truth.
type Store interface {
	// GetSettings returns (nil, nil) when no document has been saved yet.
	GetSettings(ctx context.Context) (*Settings, error)
	PutSettings(ctx context.Context, s *Settings) error

	// GetHistory returns the full history list, newest first.
	GetHistory(ctx context.Context) ([]HistoryEntry, error)
	PutHistory(ctx context.Context, entries []HistoryEntry) error

	GetBackup(ctx context.Context, id string) (*MigrationBackup, error)
	PutBackup(ctx context.Context, b *MigrationBackup) error
	ListBackups(ctx context.Context) ([]MigrationBackup, error)

	GetMetadata(ctx context.Context) (*MigrationMetadata, error)
	PutMetadata(ctx context.Context, m *MigrationMetadata) error
}

type IDesignUsecase interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings, author, description string) (Settings, error)
	ExportSettings(ctx context.Context) (string, error)
	ImportSettings(ctx context.Context, jsonString, author string) (Settings, error)
}

type IHistoryUsecase interface {
	List(ctx context.Context, limit, offset int) (HistoryPage, error)
	Rollback(ctx context.Context, entryID, author string) (Settings, error)
}

type IMigrationUsecase interface {
	Migrate(ctx context.Context, author string) (MigrationResult, error)
	RestoreFromBackup(ctx context.Context, backupID, author string) (MigrationResult, error)
	ListBackups(ctx context.Context) ([]MigrationBackup, error)
	Metadata(ctx context.Context) (*MigrationMetadata, error)
}

// DefaultSettings is the documented fallback returned when no document has
// ever been saved. It reflects the launch design of the site.
func DefaultSettings() Settings {
	return Settings{
		Version: CurrentSchemaVersion,
		Sections: map[string]SectionConfig{
			"hero": {
				BackgroundType:  "video",
				BackgroundValue: "/media/hero-plant.mp4",
				Opacity:         85,
				Tone:            "dark",
			},
			"products": {
				BackgroundType:  "color",
				BackgroundValue: "#f5f5f2",
				Opacity:         100,
				Tone:            "light",
			},
			"about": {
				BackgroundType:  "image",
				BackgroundValue: "/media/factory-aerial.jpg",
				Opacity:         90,
				Tone:            "dark",
			},
			"contact": {
				BackgroundType:  "color",
				BackgroundValue: "#1a2b3c",
				Opacity:         100,
				Tone:            "dark",
			},
		},
		ProductCards: &ProductCardConfig{
			Style:        "elevated",
			Columns:      3,
			AccentColor:  "#c8a24b",
			TitleFont:    "Noto Sans KR",
			BorderRadius: 8,
			HoverEffect:  "lift",
		},
		LastUpdated: time.Now().UTC(),
	}
}
