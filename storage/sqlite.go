package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteLinkStore хранит ссылки в локальной sqlite-базе.
// Подходит для единственного инстанса сервиса без внешней инфраструктуры
type SQLiteLinkStore struct {
	DB      *sql.DB
	timeout time.Duration
}

const initSQLiteSQL = `
CREATE TABLE IF NOT EXISTS links (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    short_key TEXT NOT NULL UNIQUE,
    target_url TEXT NOT NULL UNIQUE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

func NewSQLiteLinkStore(path string, timeout time.Duration) (*SQLiteLinkStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	// sqlite не умеет в параллельную запись - ограничиваемся одним соединением
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(initSQLiteSQL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteLinkStore{DB: db, timeout: timeout}, nil
}

func (backend *SQLiteLinkStore) Set(ctx context.Context, key, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, backend.timeout)
	defer cancel()
	result, err := backend.DB.ExecContext(
		ctx, "INSERT OR IGNORE INTO links (short_key, target_url) VALUES(?, ?)", key, target,
	)
	if err != nil {
		return "", err
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return "", err
	}
	if inserted == 0 {
		// Вставка не прошла из-за конфликта по одному из уникальных индексов.
		// Если для этого URL уже выдавался ключ, то возвращаем его.
		// В противном случае конфликт случился по самому ключу - он занят другим URL
		actualKey, lookupErr := backend.getKeyForTarget(ctx, target)
		if lookupErr != nil {
			if errors.Is(lookupErr, ErrLinkNotFound) {
				return "", ErrKeyTaken
			}
			return "", lookupErr
		}
		return actualKey, ErrTargetAlreadyShortened
	}
	return key, nil
}

func (backend *SQLiteLinkStore) Get(ctx context.Context, key string) (string, error) {
	var target string

	ctx, cancel := context.WithTimeout(ctx, backend.timeout)
	defer cancel()

	err := backend.DB.QueryRowContext(ctx, "SELECT target_url FROM links WHERE short_key = ?", key).Scan(&target)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrLinkNotFound
		}
		return "", err
	}

	return target, nil
}

func (backend *SQLiteLinkStore) Flush(ctx context.Context) error {
	// каждая запись сразу попадает в бд - дополнительно сохранять нечего
	return nil
}

// Cleanup удаляет все ссылки из таблицы
// Метод предназначен только для вызовов в тестах
func (backend *SQLiteLinkStore) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), backend.timeout)
	defer cancel()
	if _, err := backend.DB.ExecContext(ctx, "DELETE FROM links"); err != nil {
		panic(err)
	}
}

func (backend *SQLiteLinkStore) Close() error {
	return backend.DB.Close()
}

func (backend *SQLiteLinkStore) getKeyForTarget(ctx context.Context, target string) (string, error) {
	var key string
	err := backend.DB.QueryRowContext(ctx, "SELECT short_key FROM links WHERE target_url = ?", target).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrLinkNotFound
		}
		return "", err
	}
	return key, nil
}
