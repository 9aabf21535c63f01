package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/daeho-materials/daeho-web/domains/design"
	pkgError "github.com/daeho-materials/daeho-web/pkg/error"
)

// migrationStep is one pure transform from one schema version to the next.
// Steps never touch storage; the engine sequences them and owns all writes.
type migrationStep struct {
	From  string
	To    string
	Apply func(design.Settings) design.Settings
}

// defaultMigrationSteps is the ordered schema evolution. The final To must
// equal design.CurrentSchemaVersion.
func defaultMigrationSteps() []migrationStep {
	return []migrationStep{
		{
			From: "1.0",
			To:   "1.1",
			// 1.1 introduced per-section tone; older documents carry none.
			Apply: func(s design.Settings) design.Settings {
				sections := make(map[string]design.SectionConfig, len(s.Sections))
				for name, section := range s.Sections {
					if section.Tone == "" {
						section.Tone = "light"
					}
					if section.Opacity <= 0 {
						section.Opacity = 100
					}
					sections[name] = section
				}
				s.Sections = sections
				return s
			},
		},
		{
			From: "1.1",
			To:   "2.0",
			// 2.0 restructured product cards; fill the fields 1.x lacked.
			Apply: func(s design.Settings) design.Settings {
				cards := design.ProductCardConfig{}
				if s.ProductCards != nil {
					cards = *s.ProductCards
				}
				if cards.Style == "" {
					cards.Style = "flat"
				}
				if cards.Columns == 0 {
					cards.Columns = 3
				}
				if cards.TitleFont == "" {
					cards.TitleFont = "Noto Sans KR"
				}
				if cards.HoverEffect == "" {
					cards.HoverEffect = "none"
				}
				s.ProductCards = &cards
				return s
			},
		},
	}
}

// migrationService is the state machine over the schema version of the
// canonical document. Backup-first ordering makes every failure mode leave
// canonical storage untouched.
type migrationService struct {
	store design.Store
	steps []migrationStep
}

func NewMigrationService(store design.Store) design.IMigrationUsecase {
	return &migrationService{store: store, steps: defaultMigrationSteps()}
}

func (s *migrationService) Migrate(ctx context.Context, author string) (design.MigrationResult, error) {
	current, err := s.store.GetSettings(ctx)
	if err != nil {
		return design.MigrationResult{}, pkgError.StorageError(fmt.Sprintf("failed to load settings: %v", err))
	}
	if current == nil {
		// Nothing saved yet; defaults are already at the latest schema.
		return design.MigrationResult{
			Success:     true,
			Message:     "no document saved yet, nothing to migrate",
			FromVersion: design.CurrentSchemaVersion,
			ToVersion:   design.CurrentSchemaVersion,
		}, nil
	}

	if current.Version == design.CurrentSchemaVersion {
		return design.MigrationResult{
			Success:     true,
			Message:     "settings already at latest schema version",
			FromVersion: current.Version,
			ToVersion:   current.Version,
		}, nil
	}

	path, ok := s.stepPath(current.Version)
	if !ok {
		// Unknown version jump: fail closed, canonical untouched.
		return design.MigrationResult{
			Success:     false,
			Message:     fmt.Sprintf("no migration path from version %q to %q", current.Version, design.CurrentSchemaVersion),
			FromVersion: current.Version,
			ToVersion:   design.CurrentSchemaVersion,
		}, nil
	}

	// Backup must be durable before any mutation so a crash mid-migration
	// never leaves the system without a recovery point.
	backup := design.MigrationBackup{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		SourceVersion: current.Version,
		Settings:      *current,
	}
	if err := s.store.PutBackup(ctx, &backup); err != nil {
		return design.MigrationResult{}, pkgError.StorageError(fmt.Sprintf("failed to write pre-migration backup: %v", err))
	}

	migrated := *current
	for _, step := range path {
		migrated = step.Apply(migrated)
		migrated.Version = step.To
	}
	migrated.LastUpdated = time.Now().UTC()

	if err := s.store.PutSettings(ctx, &migrated); err != nil {
		return design.MigrationResult{}, pkgError.StorageError(fmt.Sprintf("failed to save migrated settings: %v", err))
	}

	meta := design.MigrationMetadata{
		FromVersion: current.Version,
		ToVersion:   migrated.Version,
		Timestamp:   migrated.LastUpdated,
		BackupID:    backup.ID,
		Author:      normalizeAuthor(author),
		Action:      "migrate",
	}
	if err := s.store.PutMetadata(ctx, &meta); err != nil {
		logrus.Warnf("[MigrationService] failed to record metadata: %v", err)
	}

	if err := appendHistory(ctx, s.store, design.HistoryEntry{
		ID:          uuid.NewString(),
		Timestamp:   migrated.LastUpdated,
		Settings:    migrated,
		Author:      normalizeAuthor(author),
		Description: fmt.Sprintf("Migrated schema from %s to %s", current.Version, migrated.Version),
	}); err != nil {
		logrus.Warnf("[MigrationService] failed to record history: %v", err)
	}

	return design.MigrationResult{
		Success:     true,
		Message:     fmt.Sprintf("migrated from %s to %s", current.Version, migrated.Version),
		FromVersion: current.Version,
		ToVersion:   migrated.Version,
		BackupID:    backup.ID,
	}, nil
}

// stepPath returns the ordered steps leading from the given version to the
// current schema version, or false when the chain does not reach it.
func (s *migrationService) stepPath(from string) ([]migrationStep, bool) {
	var path []migrationStep
	version := from
	for version != design.CurrentSchemaVersion {
		found := false
		for _, step := range s.steps {
			if step.From == version {
				path = append(path, step)
				version = step.To
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return path, true
}

// RestoreFromBackup writes a backup snapshot back as canonical, bypassing
// the step sequence entirely.
func (s *migrationService) RestoreFromBackup(ctx context.Context, backupID, author string) (design.MigrationResult, error) {
	backup, err := s.store.GetBackup(ctx, backupID)
	if err != nil {
		return design.MigrationResult{}, pkgError.StorageError(fmt.Sprintf("failed to load backup: %v", err))
	}
	if backup == nil {
		return design.MigrationResult{}, pkgError.NotFoundError(fmt.Sprintf("backup %s not found", backupID))
	}

	// The live document may be at any version (restore after restore);
	// record what was actually replaced.
	current, err := s.store.GetSettings(ctx)
	if err != nil {
		return design.MigrationResult{}, pkgError.StorageError(fmt.Sprintf("failed to load settings: %v", err))
	}
	fromVersion := design.CurrentSchemaVersion
	if current != nil {
		fromVersion = current.Version
	}

	now := time.Now().UTC()
	settings := backup.Settings
	settings.LastUpdated = now

	if err := s.store.PutSettings(ctx, &settings); err != nil {
		return design.MigrationResult{}, pkgError.StorageError(fmt.Sprintf("failed to restore settings: %v", err))
	}

	meta := design.MigrationMetadata{
		FromVersion: fromVersion,
		ToVersion:   settings.Version,
		Timestamp:   now,
		BackupID:    backup.ID,
		Author:      normalizeAuthor(author),
		Action:      "restore",
	}
	if err := s.store.PutMetadata(ctx, &meta); err != nil {
		logrus.Warnf("[MigrationService] failed to record metadata: %v", err)
	}

	if err := appendHistory(ctx, s.store, design.HistoryEntry{
		ID:          fmt.Sprintf("restore-%d", now.UnixMilli()),
		Timestamp:   now,
		Settings:    settings,
		Author:      normalizeAuthor(author),
		Description: fmt.Sprintf("Restored from backup %s", backup.ID),
	}); err != nil {
		logrus.Warnf("[MigrationService] failed to record history: %v", err)
	}

	return design.MigrationResult{
		Success:     true,
		Message:     fmt.Sprintf("restored settings from backup %s (version %s)", backup.ID, backup.SourceVersion),
		FromVersion: fromVersion,
		ToVersion:   settings.Version,
		BackupID:    backup.ID,
	}, nil
}

func (s *migrationService) ListBackups(ctx context.Context) ([]design.MigrationBackup, error) {
	backups, err := s.store.ListBackups(ctx)
	if err != nil {
		return nil, pkgError.StorageError(fmt.Sprintf("failed to list backups: %v", err))
	}
	return backups, nil
}

func (s *migrationService) Metadata(ctx context.Context) (*design.MigrationMetadata, error) {
	meta, err := s.store.GetMetadata(ctx)
	if err != nil {
		return nil, pkgError.StorageError(fmt.Sprintf("failed to load migration metadata: %v", err))
	}
	return meta, nil
}
