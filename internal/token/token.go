// Пакет token — выпуск и проверка сессионных токенов.
// Токен самодостаточен (HS256): валидность определяется только подписью
// и сроком действия, без обращения к хранилищу. Роль в токене — снимок
// на момент выпуска; её расхождение с таблицей users ограничено TTL.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки сессионного токена.
var (
	// ErrTokenExpired — срок действия истёк.
	ErrTokenExpired = errors.New("сессионный токен просрочен")
	// ErrTokenInvalid — подпись или структура токена невалидна.
	ErrTokenInvalid = errors.New("невалидный сессионный токен")
)

// Session — проверенное содержимое сессионного токена.
type Session struct {
	// Subject — идентификатор субъекта
	Subject string
	// Role — роль на момент выпуска токена
	Role string
	// IssuedAt — время выпуска
	IssuedAt time.Time
	// ExpiresAt — время истечения
	ExpiresAt time.Time
}

// sessionClaims — claims сессионного токена.
type sessionClaims struct {
	jwt.RegisteredClaims
	// Role — роль субъекта на момент выпуска.
	Role string `json:"role"`
}

// Manager — выпуск и проверка сессионных токенов.
// Секрет подписи — конфигурация процесса, в токен не попадает.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// now подменяется в тестах.
	now func() time.Time
}

// New создаёт Manager.
// secret — ключ подписи HS256, issuer — issuer токенов, ttl — время жизни.
func New(secret []byte, issuer string, ttl time.Duration) *Manager {
	return &Manager{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue выпускает сессионный токен для субъекта с указанной ролью.
// Возвращает строку токена и время истечения.
func (m *Manager) Issue(subject, role string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("подпись сессионного токена: %w", err)
	}
	return tokenStr, expiresAt, nil
}

// Authenticate проверяет подпись и срок действия токена.
// Ни одно поле не считается достоверным до успешной проверки подписи.
func (m *Manager) Authenticate(rawToken string) (*Session, error) {
	claims := &sessionClaims{}

	_, err := jwt.ParseWithClaims(rawToken, claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: отсутствует sub", ErrTokenInvalid)
	}
	// Подпись может быть валидной и без iat/exp — например, токен выпущен
	// сторонним инструментом с тем же секретом.
	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: отсутствует iat", ErrTokenInvalid)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: отсутствует exp", ErrTokenInvalid)
	}

	return &Session{
		Subject:   claims.Subject,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
