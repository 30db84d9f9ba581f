package storage

import (
	"context"
	"sync"
)

type LocmemLinkStore struct {
	Links   map[string]string
	created map[string]string
	mu      sync.RWMutex
}

func NewLocmemLinkStore() *LocmemLinkStore {
	links := make(map[string]string)
	created := make(map[string]string) // служебная мапа, хранящая ссылки в формате URL -> короткий ключ
	return &LocmemLinkStore{
		Links:   links,
		created: created,
	}
}

func (backend *LocmemLinkStore) Set(ctx context.Context, key, target string) (string, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	// Проверяем на дубли: для уже сокращенного URL возвращаем ранее выданный ключ
	actualKey, exists := backend.created[target]
	if exists {
		return actualKey, ErrTargetAlreadyShortened
	}
	// Ключ уже занят другим URL - не перезаписываем чужую пару,
	// а сообщаем об этом вызывающему коду, чтобы тот сгенерировал новый ключ
	if _, taken := backend.Links[key]; taken {
		return "", ErrKeyTaken
	}
	backend.Links[key] = target
	backend.created[target] = key
	return key, nil
}

func (backend *LocmemLinkStore) Get(ctx context.Context, key string) (string, error) {
	backend.mu.RLock()
	defer backend.mu.RUnlock()
	target, found := backend.Links[key]
	if !found {
		return "", ErrLinkNotFound
	}
	return target, nil
}

func (backend *LocmemLinkStore) Flush(ctx context.Context) error {
	// хранилище живет только в памяти процесса - сохранять нечего
	return nil
}

func (backend *LocmemLinkStore) Cleanup() {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.Links = make(map[string]string)
	backend.created = make(map[string]string)
}

func (backend *LocmemLinkStore) Close() error {
	// do nothing
	return nil
}
