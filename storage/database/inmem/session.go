package inmemdb

import (
	"sync"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/session"
)

// SessionStorage keeps session keys in memory only.
type SessionStorage struct {
	mutex  sync.RWMutex
	values map[string]string
}

var _ session.Storage = (*SessionStorage)(nil)

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{values: make(map[string]string)}
}

func (s *SessionStorage) Get(key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return v, nil
}

func (s *SessionStorage) Set(values map[string]string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *SessionStorage) Delete(keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Len is the number of stored keys.
func (s *SessionStorage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.values)
}
