package keygen

// Generator выдает случайный ключ для короткой ссылки заданной длины.
// Уникальность ключа здесь не гарантируется - за проверку занятости отвечает хранилище
type Generator interface {
	Generate(length int) string
}
