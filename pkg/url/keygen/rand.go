package keygen

import (
	"github.com/yusukebe/url-shortener/pkg/random"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandGenerator выбирает случайные символы из полного алфавита короткого ключа,
// в отличие от UUIDGenerator, ограниченного hex-символами
type RandGenerator struct{}

func NewRandGenerator() *RandGenerator {
	return &RandGenerator{}
}

func (g RandGenerator) Generate(length int) string {
	return random.String(length, alphabet)
}
