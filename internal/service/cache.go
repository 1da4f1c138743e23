// cache.go — LRU-кэш метаданных файлов с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/gofilebox/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fb_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш метаданных.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fb_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша метаданных.",
	})
)

// CacheService — in-memory LRU-кэш метаданных файлов с автоматическим TTL.
// Кэш только ускоряет чтение: источником истины остаётся база,
// мутации обязаны инвалидировать запись.
type CacheService struct {
	cache *expirable.LRU[int64, *model.FileRecord]
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	cache := expirable.NewLRU[int64, *model.FileRecord](maxSize, nil, ttl)
	return &CacheService{cache: cache}
}

// Get возвращает FileRecord из кэша по id.
// Возвращает (запись, true) при hit или (nil, false) при miss.
func (c *CacheService) Get(id int64) (*model.FileRecord, bool) {
	val, ok := c.cache.Get(id)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись в кэше.
func (c *CacheService) Set(id int64, record *model.FileRecord) {
	c.cache.Add(id, record)
}

// Delete удаляет запись из кэша (инвалидация при удалении/замене файла).
func (c *CacheService) Delete(id int64) {
	c.cache.Remove(id)
}
