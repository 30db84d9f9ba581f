package storage

import "context"

// LinkStore описывает key-value хранилище коротких ссылок.
// Set работает по принципу put-if-absent: существующая пара никогда не перезаписывается,
// а повторное сокращение уже известного URL возвращает ранее выданный ключ
type LinkStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, target string) (string, error)
	Flush(ctx context.Context) error
	Cleanup()
	Close() error
}
