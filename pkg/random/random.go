package random

import (
	"math/rand"
)

func String(length int, alphabet string) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Int63()%int64(len(alphabet))] // nolint:gosec
	}
	return string(b)
}
