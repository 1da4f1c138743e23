// Пакет token — выдача, ротация, проверка и отзыв пары access/refresh
// токенов сессии. Таблица токенов живёт только в памяти процесса:
// рестарт сервиса завершает все сессии.
package token

import (
	"sync"

	"github.com/bigkaa/gofilebox/internal/domain/model"
)

// storeKey — ключ таблицы токенов: не более одной живой записи
// на пару (subject, kind).
type storeKey struct {
	subject string
	kind    model.TokenKind
}

// Store — in-memory таблица токенов, защищённая мьютексом.
// Передаётся в Authority явно, глобального состояния нет.
// Конкурентная выдача для одного subject/kind разрешается по принципу
// «последняя запись выигрывает» — compare-and-swap не выполняется.
type Store struct {
	mu      sync.RWMutex
	records map[storeKey]model.TokenRecord
}

// NewStore создаёт пустую таблицу токенов.
func NewStore() *Store {
	return &Store{records: make(map[storeKey]model.TokenRecord)}
}

// Upsert вставляет запись, перезаписывая прежнюю для той же пары
// (subject, kind) — прежнее значение перестаёт числиться в таблице.
func (s *Store) Upsert(rec model.TokenRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[storeKey{subject: rec.Subject, kind: rec.Kind}] = rec
}

// FindByValue ищет запись указанного вида с точно совпадающим значением.
func (s *Store) FindByValue(value string, kind model.TokenKind) (model.TokenRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.Kind == kind && rec.Value == value {
			return rec, true
		}
	}
	return model.TokenRecord{}, false
}

// RemoveByValue удаляет все записи с указанным значением независимо от вида.
func (s *Store) RemoveByValue(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rec := range s.records {
		if rec.Value == value {
			delete(s.records, key)
		}
	}
}

// RemoveSession находит access-запись с указанным значением и одним
// действием удаляет её вместе с refresh-записью того же subject (если есть).
// Возвращает false, если access-запись не найдена.
func (s *Store) RemoveSession(accessValue string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var access *model.TokenRecord
	for _, rec := range s.records {
		if rec.Kind == model.TokenAccess && rec.Value == accessValue {
			r := rec
			access = &r
			break
		}
	}
	if access == nil {
		return false
	}

	delete(s.records, storeKey{subject: access.Subject, kind: model.TokenAccess})
	delete(s.records, storeKey{subject: access.Subject, kind: model.TokenRefresh})
	return true
}

// Len возвращает число записей в таблице.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
