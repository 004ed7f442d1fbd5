package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/domain/ports/repository"
	"rediscoveru/internal/infra/metrics"
	red "rediscoveru/internal/infra/redis"
)

var _ repository.SettingsRepository = (*settingsRepoCacheDecorator)(nil)

// settingsRepoCacheDecorator caches the singleton settings row in Redis.
// The row is read on every checkout, so a stale read window of one TTL is
// traded for not touching Postgres on the hot path.
type settingsRepoCacheDecorator struct {
	inner repository.SettingsRepository
	cache red.RedisClient
	ttl   time.Duration
}

const settingsCacheKey = "settings:platform"

func NewSettingsRepoCacheDecorator(inner repository.SettingsRepository, cache red.RedisClient, ttl time.Duration) repository.SettingsRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &settingsRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func (d *settingsRepoCacheDecorator) Get(ctx context.Context, tx repository.Tx) (*model.Settings, error) {
	// Transactional reads bypass the cache so callers inside WithTx always
	// see committed state.
	if tx != nil {
		return d.inner.Get(ctx, tx)
	}

	val, err := d.cache.Get(ctx, settingsCacheKey)
	if err == nil {
		metrics.IncCacheRequest("settings", "hit")
		var s model.Settings
		if json.Unmarshal([]byte(val), &s) == nil {
			return &s, nil
		}
	}

	metrics.IncCacheRequest("settings", "miss")
	s, err := d.inner.Get(ctx, tx)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(s); err == nil {
		d.cache.Set(ctx, settingsCacheKey, bytes, d.ttl)
	}
	return s, nil
}

func (d *settingsRepoCacheDecorator) UpdatePrice(ctx context.Context, tx repository.Tx, price decimal.Decimal) error {
	if err := d.inner.UpdatePrice(ctx, tx, price); err != nil {
		return err
	}
	d.cache.Del(ctx, settingsCacheKey)
	return nil
}
