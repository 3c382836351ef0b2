// Пакет cache — LRU-кэш записей авторизации для re-check режима.
// Обёртка над hashicorp/golang-lru/v2/expirable.
// Контракт инвалидации: TTL после добавления плюс явный Invalidate
// при каждом административном изменении роли или статуса.
// При RoleCacheTTL = 0 кэш не создаётся (nil-safe методы).
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/actiplan/api-module/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	roleCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ap_role_cache_hits_total",
		Help: "Общее количество попаданий в кэш записей авторизации.",
	})
	roleCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ap_role_cache_misses_total",
		Help: "Общее количество промахов кэша записей авторизации.",
	})
)

// RoleCache — LRU-кэш записей авторизации с TTL.
// Каждый экземпляр api-module имеет собственный in-memory кэш.
type RoleCache struct {
	cache *expirable.LRU[string, *model.User]
}

// New создаёт кэш с указанным максимальным размером и TTL.
// При ttl <= 0 возвращает nil: все методы nil-safe, кэш отключён.
func New(maxSize int, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		return nil
	}
	return &RoleCache{
		cache: expirable.NewLRU[string, *model.User](maxSize, nil, ttl),
	}
}

// Get возвращает запись из кэша по subject.
func (c *RoleCache) Get(subject string) (*model.User, bool) {
	if c == nil {
		return nil, false
	}
	val, ok := c.cache.Get(subject)
	if ok {
		roleCacheHitsTotal.Inc()
		return val, true
	}
	roleCacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись в кэше.
func (c *RoleCache) Set(subject string, u *model.User) {
	if c == nil {
		return
	}
	c.cache.Add(subject, u)
}

// Invalidate удаляет запись из кэша.
// Вызывается при административном изменении роли или статуса.
func (c *RoleCache) Invalidate(subject string) {
	if c == nil {
		return
	}
	c.cache.Remove(subject)
}
