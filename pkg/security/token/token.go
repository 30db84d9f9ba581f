package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

const valueLength = 16 // in bytes

// Sealer выпускает и проверяет одноразовые токены,
// подписанные секретным ключом по алгоритму HMAC-SHA256.
// Токен состоит из случайного hex-значения и его подписи в формате base64,
// разделенных двоеточием
type Sealer struct {
	secret []byte
}

func NewSealer(secret []byte) *Sealer {
	return &Sealer{secret: secret}
}

func (s *Sealer) Issue() (string, error) {
	randomValue := make([]byte, valueLength)
	if _, err := rand.Read(randomValue); err != nil {
		return "", err
	}
	value := hex.EncodeToString(randomValue)
	return value + ":" + base64.StdEncoding.EncodeToString(s.sign(value)), nil
}

func (s *Sealer) Verify(sealed string) bool {
	parts := strings.Split(sealed, ":")
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	actualSig, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	return hmac.Equal(s.sign(parts[0]), actualSig)
}

func (s *Sealer) sign(value string) []byte {
	hasher := hmac.New(sha256.New, s.secret)
	hasher.Write([]byte(value))
	return hasher.Sum(nil)
}
