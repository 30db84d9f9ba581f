package registry

import (
	"context"
	"errors"
	"log"

	"github.com/yusukebe/url-shortener/internal/jobs"
	"github.com/yusukebe/url-shortener/pkg/background"
	"github.com/yusukebe/url-shortener/pkg/url/keygen"
	"github.com/yusukebe/url-shortener/storage"
)

// KeyLength - длина короткого ключа; роутер принимает ключи ровно такой длины
const KeyLength = 6

// maxAttempts ограничивает количество попыток подобрать свободный ключ,
// чтобы запрос не мог зависнуть на почти исчерпанном пространстве ключей
const maxAttempts = 10

var ErrKeyspaceExhausted = errors.New("unable to allocate a free short key")

// Registry связывает генератор ключей с хранилищем:
// разрешает короткие ключи в оригинальные URL и создает новые пары
type Registry struct {
	store   storage.LinkStore
	keygen  keygen.Generator
	flusher *background.Pool
}

func New(store storage.LinkStore, gen keygen.Generator, flusher *background.Pool) *Registry {
	return &Registry{
		store:   store,
		keygen:  gen,
		flusher: flusher,
	}
}

// Resolve возвращает оригинальный URL для короткого ключа.
// Для неизвестного ключа вернет storage.ErrLinkNotFound
func (reg *Registry) Resolve(ctx context.Context, key string) (string, error) {
	return reg.store.Get(ctx, key)
}

// Create выдает короткий ключ для переданного URL.
// Для уже сокращенного ранее URL возвращается прежний ключ.
// Свободный ключ подбирается за ограниченное число попыток:
// хранилище атомарно отказывает в записи по занятому ключу,
// и тогда мы генерируем новый кандидат вместо перезаписи чужой пары
func (reg *Registry) Create(ctx context.Context, target string) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := reg.keygen.Generate(KeyLength)
		actualKey, err := reg.store.Set(ctx, candidate, target)
		switch {
		case err == nil:
			reg.scheduleFlush(ctx)
			return actualKey, nil
		case errors.Is(err, storage.ErrTargetAlreadyShortened):
			return actualKey, nil
		case errors.Is(err, storage.ErrKeyTaken):
			// коллизия - пробуем следующий кандидат
		default:
			return "", err
		}
	}
	return "", ErrKeyspaceExhausted
}

// scheduleFlush ставит в очередь фоновое сохранение хранилища,
// не задерживая обработку текущего запроса.
// Неудача постановки в очередь не критична: финальный Flush случится при остановке сервиса
func (reg *Registry) scheduleFlush(ctx context.Context) {
	if reg.flusher == nil {
		return
	}
	if err := reg.flusher.Add(ctx, jobs.FlushStore(reg.store)); err != nil {
		log.Printf("unable to schedule link store flush due to %s\n", err)
	}
}
