package keygen

import (
	"strings"

	"github.com/google/uuid"
)

// UUIDGenerator строит ключ из первых символов hex-представления
// случайного uuid - 128 бит энтропии с запасом хватает на короткий ключ
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g UUIDGenerator) Generate(length int) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	if length > len(id) {
		length = len(id)
	}
	return id[:length]
}
