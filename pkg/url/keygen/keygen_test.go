package keygen_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yusukebe/url-shortener/pkg/url/keygen"
)

func TestUUIDGeneratorProducesHexKeys(t *testing.T) {
	gen := keygen.NewUUIDGenerator()
	hexKey := regexp.MustCompile(`^[0-9a-f]{6}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, hexKey, gen.Generate(6))
	}
}

func TestUUIDGeneratorSupportsLongerKeys(t *testing.T) {
	gen := keygen.NewUUIDGenerator()
	assert.Len(t, gen.Generate(12), 12)
	// длиннее hex-представления uuid ключ быть не может
	assert.Len(t, gen.Generate(100), 32)
}

func TestUUIDGeneratorKeysVary(t *testing.T) {
	gen := keygen.NewUUIDGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[gen.Generate(6)] = true
	}
	// все 100 ключей разные - столкновение здесь практически невозможно
	assert.Len(t, seen, 100)
}

func TestRandGeneratorUsesFullAlphabet(t *testing.T) {
	gen := keygen.NewRandGenerator()
	randKey := regexp.MustCompile(`^[0-9a-z]{6}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, randKey, gen.Generate(6))
	}
	assert.Len(t, gen.Generate(11), 11)
}
