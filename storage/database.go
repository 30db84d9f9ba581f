package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type DatabaseLinkStore struct {
	DB      *pgxpool.Pool
	timeout time.Duration
}

type conn interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const initDatabaseSQL = `
CREATE TABLE IF NOT EXISTS links (
    id SERIAL PRIMARY KEY,
    short_key TEXT NOT NULL,
    target_url TEXT NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    CHECK (short_key <> '')
);

CREATE UNIQUE INDEX IF NOT EXISTS links_short_key_uniq_idx ON links (short_key);
CREATE UNIQUE INDEX IF NOT EXISTS links_target_url_uniq_idx ON links (target_url);
`

func NewDatabaseLinkStore(db *pgxpool.Pool, timeout time.Duration) (*DatabaseLinkStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	// при инициализации бэкенда создаем по необходимости нужные нам сущности в бд
	if _, err := db.Exec(ctx, initDatabaseSQL); err != nil {
		return nil, err
	}
	return &DatabaseLinkStore{db, timeout}, nil
}

func (backend DatabaseLinkStore) Set(ctx context.Context, key, target string) (string, error) {
	var rowID int
	ctx, cancel := context.WithTimeout(ctx, backend.timeout)
	defer cancel()
	err := backend.DB.QueryRow(
		ctx,
		"INSERT INTO links (short_key, target_url) VALUES($1, $2) "+
			"ON CONFLICT DO NOTHING RETURNING id",
		key, target,
	).Scan(&rowID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Вставка не прошла из-за конфликта по одному из уникальных индексов.
			// Если для этого URL уже выдавался ключ, то возвращаем его.
			// В противном случае конфликт случился по самому ключу - он занят другим URL
			actualKey, lookupErr := backend.getKeyForTarget(ctx, backend.DB, target)
			if lookupErr != nil {
				if errors.Is(lookupErr, ErrLinkNotFound) {
					return "", ErrKeyTaken
				}
				return "", lookupErr
			}
			return actualKey, ErrTargetAlreadyShortened
		}
		return "", err
	}
	return key, nil
}

func (backend DatabaseLinkStore) Get(ctx context.Context, key string) (string, error) {
	var target string

	ctx, cancel := context.WithTimeout(ctx, backend.timeout)
	defer cancel()

	err := backend.DB.QueryRow(ctx, "SELECT target_url FROM links WHERE short_key = $1 LIMIT 1", key).Scan(&target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrLinkNotFound
		}
		return "", err
	}

	return target, nil
}

func (backend DatabaseLinkStore) Flush(ctx context.Context) error {
	// каждая запись сразу попадает в бд - дополнительно сохранять нечего
	return nil
}

// Cleanup отчищает таблицу со ссылками с помощью вызова TRUNCATE
// Метод предназначен только для вызовов в тестах
func (backend DatabaseLinkStore) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), backend.timeout)
	defer cancel()
	if _, err := backend.DB.Exec(ctx, "TRUNCATE TABLE links"); err != nil {
		panic(err)
	}
}

func (backend DatabaseLinkStore) Close() error {
	// соединение к бд закрывается на уровне приложения
	return nil
}

func (backend DatabaseLinkStore) getKeyForTarget(ctx context.Context, conn conn, target string) (string, error) {
	var key string
	ctx, cancel := context.WithTimeout(ctx, backend.timeout)
	defer cancel()
	err := conn.QueryRow(ctx, "SELECT short_key FROM links WHERE target_url = $1", target).Scan(&key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrLinkNotFound
		}
		return "", err
	}
	return key, nil
}
