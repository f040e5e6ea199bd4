// Package jwt реализует парсинг и проверку JWT токенов, выданных внешним
// провайдером аутентификации.
//
// Maker определяет интерфейс для создания и проверки токенов с UID
// пользователя; MakerImpl — конкретная реализация с секретным ключом и TTL.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создаёт токен с UID и email пользователя
	GenerateToken(userUID, email string) (string, error)
	// ParseToken возвращает *CustomClaims с UID и email
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
