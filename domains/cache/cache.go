package cache

import "context"

// Cache key names, prefixed by the valkey client before hitting the wire.
const (
	KeySettings = "cache:design:settings"
	KeyHistory  = "cache:design:history"

	// VersionKeyDesign is the cache-busting counter for the design family.
	// Bumped on every invalidation so clients can detect stale data before
	// TTL expiry.
	VersionKeyDesign = "cache:design:version"

	KeyFontList         = "cache:fonts:list"
	KeyFontSearchPrefix = "cache:fonts:search:"
)

// Stats is a read-only snapshot of the cache family for the admin panel.
type Stats struct {
	DesignVersion   int64  `json:"design_version"`
	SettingsCached  bool   `json:"settings_cached"`
	HistoryCached   bool   `json:"history_cached"`
	FontListCached  bool   `json:"font_list_cached"`
	SettingsSize    string `json:"settings_size"` // human readable
	SettingsUpdated string `json:"settings_updated,omitempty"`
}

// ICacheManager is the advisory caching layer over the KV store. Every
// operation is fail-open: a cache outage degrades to recomputing from
// canonical storage, never to an error surfaced to the caller.
type ICacheManager interface {
	// Get JSON-decodes the cached value into dest. Returns false on miss
	// or on any underlying store error.
	Get(ctx context.Context, key string, dest any) bool

	// Set writes with an expiring key when ttlSeconds > 0, otherwise a
	// persistent key. Failure is logged and swallowed.
	Set(ctx context.Context, key string, value any, ttlSeconds int)

	Delete(ctx context.Context, key string)
	DeleteMany(ctx context.Context, keys []string)

	// InvalidateDesignCaches removes the settings cache and the history
	// cache as one batched delete. The design version counter survives
	// invalidation so it stays strictly increasing across mutations.
	InvalidateDesignCaches(ctx context.Context)

	// IncrementVersion atomically bumps a counter. On store failure it
	// returns the current unix-millis timestamp so callers still observe
	// a value that moved forward.
	IncrementVersion(ctx context.Context, key string) int64

	// GetVersion reads a counter, defaulting to 0 when absent or erroring.
	GetVersion(ctx context.Context, key string) int64
}

// GetOrSet returns the cached value under key, or invokes factory exactly
// once, caches its result and returns it. Factory errors are returned
// as-is and nothing is cached.
func GetOrSet[T any](ctx context.Context, m ICacheManager, key string, ttlSeconds int, factory func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if m.Get(ctx, key, &cached) {
		return cached, nil
	}
	fresh, err := factory(ctx)
	if err != nil {
		return fresh, err
	}
	m.Set(ctx, key, fresh, ttlSeconds)
	return fresh, nil
}
