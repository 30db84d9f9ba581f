package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"sync"
)

// FileLinkStore держит рабочий набор ссылок в памяти
// и периодически сбрасывает его снапшотом на диск в виде json
type FileLinkStore struct {
	filename string
	cache    map[string]string
	created  map[string]string
	mu       sync.RWMutex
}

func NewFileLinkStore(filename string) (*FileLinkStore, error) {
	cache := make(map[string]string)
	created := make(map[string]string) // служебная мапа, хранящая ссылки в формате URL -> короткий ключ
	// Считываем с диска записи, сохраненные ранее, и заполняем ими кэш,
	// с которым мы и будем работать до завершения программы
	file, err := os.OpenFile(filename, os.O_RDONLY, 0777)
	if err != nil {
		// Если файл не найден, то ничего страшного - это ожидаемое поведение при первом запуске сервиса
		if os.IsNotExist(err) {
			log.Printf("file %s not found; will start with empty storage\n", filename)
		} else {
			log.Printf("error opening %s: %s\n", filename, err)
			return nil, err
		}
	} else {
		defer file.Close()
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(&cache); err != nil {
			// Файл пустой - ожидаемое поведение
			if errors.Is(err, io.EOF) {
				log.Printf("file is empty %s; will start with empty storage\n", filename)
			} else {
				log.Printf("unable to populate storage from %s due to %s\n", filename, err)
				return nil, err
			}
		} else {
			// заполняем обратную мапу URL -> ключ для быстрого поиска дублей
			for key, target := range cache {
				created[target] = key
			}
		}
	}
	backend := FileLinkStore{
		filename: filename,
		cache:    cache,
		created:  created,
	}
	return &backend, nil
}

func (backend *FileLinkStore) Set(ctx context.Context, key, target string) (string, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	actualKey, exists := backend.created[target]
	if exists {
		return actualKey, ErrTargetAlreadyShortened
	}
	if _, taken := backend.cache[key]; taken {
		return "", ErrKeyTaken
	}
	backend.cache[key] = target
	backend.created[target] = key
	return key, nil
}

func (backend *FileLinkStore) Get(ctx context.Context, key string) (string, error) {
	backend.mu.RLock()
	defer backend.mu.RUnlock()
	target, found := backend.cache[key]
	if !found {
		return "", ErrLinkNotFound
	}
	return target, nil
}

// Flush сохраняет на диск снапшот рабочего кэша со ссылками.
// Вызывается как фоновыми джобами после добавления новых ссылок,
// так и при штатной остановке сервиса
func (backend *FileLinkStore) Flush(ctx context.Context) error {
	backend.mu.RLock()
	snapshot := make(map[string]string, len(backend.cache))
	for key, target := range backend.cache {
		snapshot[key] = target
	}
	backend.mu.RUnlock()

	file, err := os.OpenFile(backend.filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0777)
	if err != nil {
		log.Printf("unable to open file %s for dumping storage due to %s\n", backend.filename, err)
		return err
	}
	defer file.Close()
	if err := json.NewEncoder(file).Encode(&snapshot); err != nil {
		log.Printf("unable to dump storage to %s due to %s\n", backend.filename, err)
		return err
	}
	return nil
}

func (backend *FileLinkStore) Cleanup() {
	if err := os.Remove(backend.filename); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			panic(err)
		}
	}
}

func (backend *FileLinkStore) Close() error {
	// Финальный снапшот, который будет использован при следующем старте программы
	return backend.Flush(context.Background())
}
