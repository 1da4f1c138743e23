package service

import (
	"testing"
	"time"

	"github.com/bigkaa/gofilebox/internal/domain/model"
)

func TestCache_SetGetDelete(t *testing.T) {
	cache := NewCacheService(4, time.Minute)

	if _, ok := cache.Get(1); ok {
		t.Error("ожидался промах пустого кэша")
	}

	cache.Set(1, &model.FileRecord{ID: 1, Name: "a.txt"})
	rec, ok := cache.Get(1)
	if !ok {
		t.Fatal("ожидалось попадание после Set")
	}
	if rec.Name != "a.txt" {
		t.Errorf("имя = %q, ожидалось a.txt", rec.Name)
	}

	cache.Delete(1)
	if _, ok := cache.Get(1); ok {
		t.Error("запись осталась в кэше после Delete")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	cache := NewCacheService(4, 20*time.Millisecond)

	cache.Set(1, &model.FileRecord{ID: 1})
	time.Sleep(60 * time.Millisecond)

	if _, ok := cache.Get(1); ok {
		t.Error("запись не истекла по TTL")
	}
}

func TestCache_Eviction(t *testing.T) {
	cache := NewCacheService(2, time.Minute)

	cache.Set(1, &model.FileRecord{ID: 1})
	cache.Set(2, &model.FileRecord{ID: 2})
	cache.Set(3, &model.FileRecord{ID: 3})

	if _, ok := cache.Get(1); ok {
		t.Error("самая старая запись не вытеснена при переполнении")
	}
	if _, ok := cache.Get(3); !ok {
		t.Error("свежая запись отсутствует в кэше")
	}
}
