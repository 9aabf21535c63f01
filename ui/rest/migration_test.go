package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	domainCache "github.com/daeho-materials/daeho-web/domains/cache"
	"github.com/daeho-materials/daeho-web/domains/design"
	"github.com/daeho-materials/daeho-web/ui/rest/middleware"
	"github.com/daeho-materials/daeho-web/usecase"
)

func newMigrationApp(store design.Store, cache *memCache) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestMigration(app, usecase.NewMigrationService(store), cache)
	return app
}

func legacyStoredSettings() *design.Settings {
	return &design.Settings{
		Version: "1.0",
		Sections: map[string]design.SectionConfig{
			"hero": {BackgroundType: "color", BackgroundValue: "#1a1a2e", Opacity: 100},
		},
		ProductCards: &design.ProductCardConfig{Style: "flat", Columns: 2},
		LastUpdated:  time.Now().UTC().Add(-time.Hour),
	}
}

func TestMigration_RunUpgradesLegacyDocument(t *testing.T) {
	store := newMemStore()
	store.settings = legacyStoredSettings()
	cache := newMemCache()
	app := newMigrationApp(store, cache)

	resp, env := doJSON(t, app, http.MethodPost, "/design/migrate", design.MigrateRequest{
		Action: "migrate",
		Author: "tester",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("migrate status = %d, want 200", resp.StatusCode)
	}

	var result design.MigrationResult
	if err := json.Unmarshal(env.Results, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !result.Success || result.FromVersion != "1.0" || result.ToVersion != design.CurrentSchemaVersion {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.BackupID == "" {
		t.Fatalf("migration must record its backup id")
	}
	if store.settings.Version != design.CurrentSchemaVersion {
		t.Fatalf("stored document version = %q, want %q", store.settings.Version, design.CurrentSchemaVersion)
	}
	if cache.GetVersion(context.Background(), domainCache.VersionKeyDesign) == 0 {
		t.Fatalf("successful migration must bump the cache version")
	}
}

func TestMigration_RunRejectsUnknownAction(t *testing.T) {
	store := newMemStore()
	app := newMigrationApp(store, newMemCache())

	resp, env := doJSON(t, app, http.MethodPost, "/design/migrate", design.MigrateRequest{Action: "explode"})
	if resp.StatusCode != http.StatusBadRequest || env.Code != "BAD_REQUEST" {
		t.Fatalf("got %d %q, want 400 BAD_REQUEST", resp.StatusCode, env.Code)
	}
}

func TestMigration_RestoreRequiresBackupID(t *testing.T) {
	store := newMemStore()
	app := newMigrationApp(store, newMemCache())

	resp, env := doJSON(t, app, http.MethodPost, "/design/migrate", design.MigrateRequest{Action: "restore"})
	if resp.StatusCode != http.StatusBadRequest || env.Code != "BAD_REQUEST" {
		t.Fatalf("got %d %q, want 400 BAD_REQUEST", resp.StatusCode, env.Code)
	}
}

func TestMigration_UnknownSourceVersionConflicts(t *testing.T) {
	store := newMemStore()
	legacy := legacyStoredSettings()
	legacy.Version = "0.7"
	store.settings = legacy
	cache := newMemCache()
	app := newMigrationApp(store, cache)

	resp, env := doJSON(t, app, http.MethodPost, "/design/migrate", design.MigrateRequest{Action: "migrate"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("migrate status = %d, want 409", resp.StatusCode)
	}
	if env.Code != "MIGRATION_FAILED" {
		t.Fatalf("code = %q, want MIGRATION_FAILED", env.Code)
	}
	if store.settings.Version != "0.7" {
		t.Fatalf("failed migration must leave the document untouched")
	}
	if cache.GetVersion(context.Background(), domainCache.VersionKeyDesign) != 0 {
		t.Fatalf("failed migration must not bump the cache version")
	}
}

func TestMigration_InspectReportsBackups(t *testing.T) {
	store := newMemStore()
	store.settings = legacyStoredSettings()
	app := newMigrationApp(store, newMemCache())

	doJSON(t, app, http.MethodPost, "/design/migrate", design.MigrateRequest{Action: "migrate"})

	resp, env := doJSON(t, app, http.MethodGet, "/design/migrate", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inspect status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Cache-Control"), "no-store") {
		t.Fatalf("inspect must be no-store, got %q", resp.Header.Get("Cache-Control"))
	}

	var results struct {
		CurrentSchemaVersion string                    `json:"current_schema_version"`
		Metadata             *design.MigrationMetadata `json:"metadata"`
		Backups              []design.MigrationBackup  `json:"backups"`
	}
	if err := json.Unmarshal(env.Results, &results); err != nil {
		t.Fatalf("unmarshal results: %v", err)
	}
	if results.CurrentSchemaVersion != design.CurrentSchemaVersion {
		t.Fatalf("current_schema_version = %q", results.CurrentSchemaVersion)
	}
	if results.Metadata == nil || results.Metadata.Action != "migrate" {
		t.Fatalf("metadata missing after migration: %+v", results.Metadata)
	}
	if len(results.Backups) != 1 || results.Backups[0].SourceVersion != "1.0" {
		t.Fatalf("backups wrong: %+v", results.Backups)
	}
}
