package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	domainCache "github.com/daeho-materials/daeho-web/domains/cache"
	"github.com/daeho-materials/daeho-web/infrastructure/valkey"
)

// cacheManager implements domainCache.ICacheManager on top of Valkey.
// Every operation is fail-open: cache failures are logged and swallowed so
// an outage degrades to recomputing from canonical storage.
type cacheManager struct {
	client *valkey.Client
}

func NewCacheManager(client *valkey.Client) domainCache.ICacheManager {
	return &cacheManager{client: client}
}

func (m *cacheManager) Get(ctx context.Context, key string, dest any) bool {
	raw, err := m.client.GetString(ctx, m.client.Key(key))
	if err != nil {
		logrus.Warnf("[CacheManager] get %s failed: %v", key, err)
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logrus.Warnf("[CacheManager] unmarshal %s failed: %v", key, err)
		return false
	}
	return true
}

func (m *cacheManager) Set(ctx context.Context, key string, value any, ttlSeconds int) {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.Warnf("[CacheManager] marshal %s failed: %v", key, err)
		return
	}
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	if err := m.client.SetString(ctx, m.client.Key(key), string(data), ttl); err != nil {
		logrus.Warnf("[CacheManager] set %s failed: %v", key, err)
	}
}

func (m *cacheManager) Delete(ctx context.Context, key string) {
	if err := m.client.Del(ctx, m.client.Key(key)); err != nil {
		logrus.Warnf("[CacheManager] delete %s failed: %v", key, err)
	}
}

func (m *cacheManager) DeleteMany(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, m.client.Key(k))
	}
	if err := m.client.Del(ctx, full...); err != nil {
		logrus.Warnf("[CacheManager] delete many failed: %v", err)
	}
}

// InvalidateDesignCaches removes the derived design-family entries in a
// single batched DEL so a caller never observes a partially invalidated
// state. The version counter is deliberately not part of the batch:
// deleting it would reset the next INCR to 1 and break monotonicity.
func (m *cacheManager) InvalidateDesignCaches(ctx context.Context) {
	m.DeleteMany(ctx, []string{
		domainCache.KeySettings,
		domainCache.KeyHistory,
	})
}

func (m *cacheManager) IncrementVersion(ctx context.Context, key string) int64 {
	n, err := m.client.Incr(ctx, m.client.Key(key))
	if err != nil {
		// A wall-clock timestamp is monotonic enough for cache busting.
		logrus.Warnf("[CacheManager] increment %s failed, using timestamp: %v", key, err)
		return time.Now().UnixMilli()
	}
	return n
}

func (m *cacheManager) GetVersion(ctx context.Context, key string) int64 {
	raw, err := m.client.GetString(ctx, m.client.Key(key))
	if err != nil || raw == "" {
		if err != nil {
			logrus.Warnf("[CacheManager] get version %s failed: %v", key, err)
		}
		return 0
	}
	var n int64
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return 0
	}
	return n
}
