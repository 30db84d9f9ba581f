package registry_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusukebe/url-shortener/internal/registry"
	"github.com/yusukebe/url-shortener/pkg/url/keygen"
	"github.com/yusukebe/url-shortener/storage"
)

// scriptedGenerator выдает заранее заданные ключи по кругу,
// позволяя детерминированно воспроизводить коллизии в тестах
type scriptedGenerator struct {
	keys []string
	next int
}

func (g *scriptedGenerator) Generate(length int) string {
	key := g.keys[g.next%len(g.keys)]
	g.next++
	return key
}

func TestCreateAndResolveLink(t *testing.T) {
	ctx := context.TODO()
	store := storage.NewLocmemLinkStore()
	reg := registry.New(store, keygen.NewUUIDGenerator(), nil)

	key, err := reg.Create(ctx, "https://go.dev/")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-z]{6}$`), key)

	target, err := reg.Resolve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev/", target)
}

func TestResolveUnknownKey(t *testing.T) {
	ctx := context.TODO()
	reg := registry.New(storage.NewLocmemLinkStore(), keygen.NewUUIDGenerator(), nil)
	target, err := reg.Resolve(ctx, "foobar")
	assert.ErrorIs(t, err, storage.ErrLinkNotFound)
	assert.Equal(t, "", target)
}

func TestCreateSameTargetReturnsSameKey(t *testing.T) {
	ctx := context.TODO()
	reg := registry.New(storage.NewLocmemLinkStore(), keygen.NewUUIDGenerator(), nil)

	first, err := reg.Create(ctx, "https://go.dev/")
	require.NoError(t, err)
	second, err := reg.Create(ctx, "https://go.dev/")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCreateRetriesOnKeyCollision(t *testing.T) {
	ctx := context.TODO()
	store := storage.NewLocmemLinkStore()
	_, err := store.Set(ctx, "abc123", "https://go.dev/")
	require.NoError(t, err)

	gen := &scriptedGenerator{keys: []string{"abc123", "xyz789"}}
	reg := registry.New(store, gen, nil)

	key, err := reg.Create(ctx, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "xyz789", key)

	// пара, с которой случилась коллизия, осталась нетронутой
	target, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev/", target)
}

func TestCreateGivesUpAfterBoundedAttempts(t *testing.T) {
	ctx := context.TODO()
	store := storage.NewLocmemLinkStore()
	_, err := store.Set(ctx, "abc123", "https://go.dev/")
	require.NoError(t, err)

	// генератор безнадежно выдает один и тот же занятый ключ
	gen := &scriptedGenerator{keys: []string{"abc123"}}
	reg := registry.New(store, gen, nil)

	key, err := reg.Create(ctx, "https://example.com/")
	assert.ErrorIs(t, err, registry.ErrKeyspaceExhausted)
	assert.Equal(t, "", key)

	target, _ := store.Get(ctx, "abc123")
	assert.Equal(t, "https://go.dev/", target)
}
