// Пакет idp — проверка ID-токенов внешнего Identity Provider.
// Доверие делегируется IdP через его публичные ключи: подпись RS256
// валидируется по JWKS с фоновым обновлением. IdP отвечает только
// за аутентификацию — роль субъекта он не определяет.
package idp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/actiplan/api-module/internal/domain/model"
)

// Ошибки проверки ID-токена.
var (
	// ErrInvalidCredential — токен подделан, не разобран или выписан не тем issuer.
	ErrInvalidCredential = errors.New("невалидный ID-токен")
	// ErrExpiredCredential — токен просрочен.
	ErrExpiredCredential = errors.New("просроченный ID-токен")
	// ErrUnavailable — IdP недоступен (не удалось получить ключи JWKS).
	ErrUnavailable = errors.New("Identity Provider недоступен")
)

// VerifiedIdentity — подтверждённое удостоверение субъекта.
// Живёт один запрос, не сохраняется.
type VerifiedIdentity struct {
	// Subject — стабильный идентификатор субъекта (sub)
	Subject string
	// Email — адрес электронной почты (может быть пустым)
	Email string
	// DisplayName — отображаемое имя (может быть пустым)
	DisplayName string
}

// idpClaims — raw claims из ID-токена IdP.
type idpClaims struct {
	jwt.RegisteredClaims
	// Email — электронная почта.
	Email string `json:"email,omitempty"`
	// Name — полное имя.
	Name string `json:"name,omitempty"`
	// PreferredUsername — имя пользователя (fallback для DisplayName).
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// Verifier — проверка ID-токенов через JWKS IdP.
type Verifier struct {
	jwks   keyfunc.Keyfunc
	issuer string
	leeway time.Duration
	logger *slog.Logger
}

// New создаёт Verifier с JWKS, обновляемым в фоне.
// jwksURL — URL JWKS endpoint IdP.
// issuer — ожидаемый issuer ID-токенов.
// refreshInterval — интервал обновления ключей, clientTimeout — таймаут HTTP-клиента.
// leeway — допустимое отклонение времени при проверке.
func New(
	jwksURL string,
	issuer string,
	refreshInterval time.Duration,
	clientTimeout time.Duration,
	leeway time.Duration,
	logger *slog.Logger,
) (*Verifier, error) {
	// JWKS Storage с фоновым обновлением.
	// NoErrorReturnFirstHTTPReq — стартуем даже если IdP ещё недоступен.
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: clientTimeout},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{
		Storage: storage,
	})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	return &Verifier{
		jwks:   k,
		issuer: issuer,
		leeway: leeway,
		logger: logger.With(slog.String("component", "idp_verifier")),
	}, nil
}

// NewWithKeyfunc создаёт Verifier с предоставленной keyfunc.
// Используется в тестах для подстановки mock JWKS.
func NewWithKeyfunc(kf keyfunc.Keyfunc, issuer string, logger *slog.Logger) *Verifier {
	return &Verifier{
		jwks:   kf,
		issuer: issuer,
		logger: logger.With(slog.String("component", "idp_verifier")),
	}
}

// Verify проверяет ID-токен и возвращает подтверждённое удостоверение.
// Без retry: ошибка проверки терминальна для запроса.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*VerifiedIdentity, error) {
	rawClaims := &idpClaims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithIssuer(v.issuer),
	}

	token, err := jwt.ParseWithClaims(rawToken, rawClaims, v.jwks.KeyfuncCtx(ctx), parserOpts...)
	if err != nil {
		return nil, v.classify(err)
	}
	if !token.Valid {
		return nil, ErrInvalidCredential
	}

	subject, err := rawClaims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: отсутствует sub", ErrInvalidCredential)
	}

	// Зарезервированное пространство имён общего каталога.
	// Внешний вход никогда не должен совпасть с ним.
	if subject == model.DefaultSubject {
		return nil, fmt.Errorf("%w: зарезервированный subject", ErrInvalidCredential)
	}

	displayName := rawClaims.Name
	if displayName == "" {
		displayName = rawClaims.PreferredUsername
	}

	return &VerifiedIdentity{
		Subject:     subject,
		Email:       rawClaims.Email,
		DisplayName: displayName,
	}, nil
}

// classify маппит ошибки jwt-библиотеки на таксономию пакета.
// Просрочка — ErrExpiredCredential; невозможность получить ключ
// (JWKS недоступен) — ErrUnavailable; остальное — ErrInvalidCredential.
func (v *Verifier) classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpiredCredential, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		v.logger.Warn("Не удалось получить ключ проверки подписи",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		v.logger.Debug("ID-токен не прошёл проверку",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
}

// --- ReadinessChecker для IdP ---

// ReadinessChecker — проверка доступности IdP через JWKS endpoint.
type ReadinessChecker struct {
	jwksURL string
	client  *http.Client
}

// NewReadinessChecker создаёт checker доступности IdP.
func NewReadinessChecker(jwksURL string, timeout time.Duration) *ReadinessChecker {
	return &ReadinessChecker{
		jwksURL: jwksURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// CheckReady проверяет доступность JWKS endpoint IdP.
func (c *ReadinessChecker) CheckReady() (status, message string) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.jwksURL, http.NoBody)
	if err != nil {
		return "fail", "ошибка создания запроса: " + err.Error()
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "fail", fmt.Sprintf("IdP JWKS недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "fail", fmt.Sprintf("IdP JWKS вернул статус %d", resp.StatusCode)
	}
	return "ok", "JWKS доступен"
}
