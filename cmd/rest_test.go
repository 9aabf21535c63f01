package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"

	coreconfig "github.com/daeho-materials/daeho-web/core/config"
	"github.com/daeho-materials/daeho-web/domains/contact"
	"github.com/daeho-materials/daeho-web/domains/design"
	"github.com/daeho-materials/daeho-web/ui/rest/middleware"
	"github.com/daeho-materials/daeho-web/usecase"
)

type routeTestStore struct {
	settings *design.Settings
	history  []design.HistoryEntry
}

func (s *routeTestStore) GetSettings(ctx context.Context) (*design.Settings, error) {
	if s.settings == nil {
		return nil, nil
	}
	cp := *s.settings
	return &cp, nil
}

func (s *routeTestStore) PutSettings(ctx context.Context, settings *design.Settings) error {
	cp := *settings
	s.settings = &cp
	return nil
}

func (s *routeTestStore) GetHistory(ctx context.Context) ([]design.HistoryEntry, error) {
	return s.history, nil
}

func (s *routeTestStore) PutHistory(ctx context.Context, entries []design.HistoryEntry) error {
	s.history = entries
	return nil
}

func (s *routeTestStore) GetBackup(ctx context.Context, id string) (*design.MigrationBackup, error) {
	return nil, nil
}

func (s *routeTestStore) PutBackup(ctx context.Context, b *design.MigrationBackup) error {
	return nil
}

func (s *routeTestStore) ListBackups(ctx context.Context) ([]design.MigrationBackup, error) {
	return nil, nil
}

func (s *routeTestStore) GetMetadata(ctx context.Context) (*design.MigrationMetadata, error) {
	return nil, nil
}

func (s *routeTestStore) PutMetadata(ctx context.Context, m *design.MigrationMetadata) error {
	return nil
}

type routeTestCache struct {
	data map[string]string
}

func (c *routeTestCache) Get(ctx context.Context, key string, dest any) bool {
	raw, ok := c.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (c *routeTestCache) Set(ctx context.Context, key string, value any, ttlSeconds int) {
	if raw, err := json.Marshal(value); err == nil {
		c.data[key] = string(raw)
	}
}

func (c *routeTestCache) Delete(ctx context.Context, key string) {
	delete(c.data, key)
}

func (c *routeTestCache) DeleteMany(ctx context.Context, keys []string) {
	for _, k := range keys {
		delete(c.data, k)
	}
}

func (c *routeTestCache) InvalidateDesignCaches(ctx context.Context) {
	c.DeleteMany(ctx, []string{"cache:design:settings", "cache:design:history"})
}

func (c *routeTestCache) IncrementVersion(ctx context.Context, key string) int64 {
	n := c.GetVersion(ctx, key) + 1
	c.data[key] = strconv.FormatInt(n, 10)
	return n
}

func (c *routeTestCache) GetVersion(ctx context.Context, key string) int64 {
	n, err := strconv.ParseInt(c.data[key], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

type routeTestContactRepo struct {
	saved []contact.Message
}

func (r *routeTestContactRepo) InitSchema(ctx context.Context) error { return nil }

func (r *routeTestContactRepo) Save(ctx context.Context, msg *contact.Message) error {
	r.saved = append(r.saved, *msg)
	return nil
}

func (r *routeTestContactRepo) List(ctx context.Context, limit, offset int) ([]contact.Message, int64, error) {
	return r.saved, int64(len(r.saved)), nil
}

func newRouteTestApp(t *testing.T, cfg *coreconfig.Config) *fiber.App {
	t.Helper()

	prev := coreconfig.Global
	coreconfig.Global = cfg
	t.Cleanup(func() { coreconfig.Global = prev })

	store := &routeTestStore{}
	cache := &routeTestCache{data: map[string]string{}}
	deps := restDeps{
		Design:    usecase.NewDesignService(store),
		History:   usecase.NewHistoryService(store),
		Migration: usecase.NewMigrationService(store),
		Font:      usecase.NewFontService(cache),
		Contact:   usecase.NewContactService(&routeTestContactRepo{}, nil, cfg.Mail),
		Cache:     cache,
	}

	app := fiber.New()
	app.Use(middleware.Recovery())
	if err := registerRoutes(app, cfg, deps); err != nil {
		t.Fatalf("registerRoutes() error: %v", err)
	}
	return app
}

func routeTestConfig() *coreconfig.Config {
	return &coreconfig.Config{
		App: coreconfig.AppConfig{
			Version:   "test",
			BasicAuth: []string{"admin:secret"},
		},
		RateLimit: coreconfig.RateLimitConfig{
			DefaultMax: 30,
			SaveMax:    10,
			WindowSecs: 60,
		},
	}
}

func adminAuth(req *http.Request) {
	req.Header.Set(fiber.HeaderAuthorization,
		"Basic "+base64.StdEncoding.EncodeToString([]byte("admin:secret")))
}

func submitJSON() []byte {
	raw, _ := json.Marshal(contact.SubmitRequest{
		Name:    "tester",
		Email:   "tester@example.com",
		Subject: "hello",
		Body:    "hello there",
		Locale:  "ko",
	})
	return raw
}

// Each rate class must gate only its own routes: exhausting the strict
// save-class quota on the contact form must not push admin reads or the
// public read endpoints into 429.
func TestRegisterRoutes_RateClassesAreRouteScoped(t *testing.T) {
	cfg := routeTestConfig()
	app := newRouteTestApp(t, cfg)

	// Trip the save class: 10 allowed, the 11th is rejected.
	for i := 1; i <= cfg.RateLimit.SaveMax; i++ {
		req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewReader(submitJSON()))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("contact submit %d status = %d, want 200", i, resp.StatusCode)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewReader(submitJSON()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("contact submit over quota status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get(fiber.HeaderRetryAfter) != "60" {
		t.Fatalf("429 Retry-After = %q, want 60", resp.Header.Get(fiber.HeaderRetryAfter))
	}

	// Admin reads run under the read class; request 11 must still pass
	// even though the save class is exhausted.
	for i := 1; i <= 11; i++ {
		req := httptest.NewRequest(http.MethodGet, "/admin/design/settings", nil)
		adminAuth(req)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("admin GET hit 429 at request %d: save-class limiter is gating admin reads", i)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("admin GET %d status = %d, want 200", i, resp.StatusCode)
		}
	}

	// Public reads are likewise unaffected.
	for i := 1; i <= 11; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fonts", nil))
		if err != nil {
			t.Fatalf("app.Test() error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("fonts GET %d status = %d, want 200", i, resp.StatusCode)
		}
	}
}

// Admin mutations run under the save class independently of the contact
// form's quota.
func TestRegisterRoutes_AdminMutationQuota(t *testing.T) {
	cfg := routeTestConfig()
	app := newRouteTestApp(t, cfg)

	body, _ := json.Marshal(design.SaveRequest{
		Settings: design.Settings{
			Version: "1.0",
			Sections: map[string]design.SectionConfig{
				"hero": {BackgroundType: "color", BackgroundValue: "#fff", Opacity: 100},
			},
			ProductCards: &design.ProductCardConfig{Style: "flat", Columns: 3},
		},
		Author: "tester",
	})

	for i := 1; i <= cfg.RateLimit.SaveMax; i++ {
		req := httptest.NewRequest(http.MethodPut, "/admin/design/settings", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		adminAuth(req)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("admin PUT %d status = %d, want 200", i, resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodPut, "/admin/design/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	adminAuth(req)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("admin PUT over quota status = %d, want 429", resp.StatusCode)
	}

	// Reads keep flowing after the write quota trips.
	req = httptest.NewRequest(http.MethodGet, "/admin/design/settings", nil)
	adminAuth(req)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin GET after write quota status = %d, want 200", resp.StatusCode)
	}
}
