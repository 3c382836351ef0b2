// auth.go — middleware аутентификации сессионных токенов.
// Порядок проверок фиксирован: сначала подпись и срок действия токена,
// и только затем — существование записи авторизации. До валидной подписи
// ни одно поле токена не считается достоверным.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/actiplan/api-module/internal/api/errors"
	"github.com/actiplan/api-module/internal/domain/rbac"
	"github.com/actiplan/api-module/internal/service"
	"github.com/actiplan/api-module/internal/token"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

// ContextKeyPrincipal — аутентифицированный субъект в контексте запроса.
const ContextKeyPrincipal contextKey = "principal"

// Mode — режим определения роли при аутентификации.
type Mode int

const (
	// ModeTrustEmbeddedRole — роль берётся из токена как есть.
	// Расхождение с таблицей users ограничено TTL токена.
	ModeTrustEmbeddedRole Mode = iota
	// ModeRecheckRole — роль и статус перечитываются из таблицы users.
	// Отсутствующая или отключённая запись → 404.
	ModeRecheckRole
)

// Principal — аутентифицированный субъект запроса.
type Principal struct {
	// Subject — идентификатор субъекта
	Subject string
	// Role — роль (из токена или из таблицы, в зависимости от режима)
	Role string
}

// SessionAuth — middleware проверки сессионных токенов.
type SessionAuth struct {
	tokens   *token.Manager
	resolver *service.AuthService
	logger   *slog.Logger
}

// NewSessionAuth создаёт middleware аутентификации.
// resolver используется только в re-check режиме.
func NewSessionAuth(tokens *token.Manager, resolver *service.AuthService, logger *slog.Logger) *SessionAuth {
	return &SessionAuth{
		tokens:   tokens,
		resolver: resolver,
		logger:   logger.With(slog.String("component", "session_auth")),
	}
}

// Middleware возвращает HTTP middleware для указанного режима.
func (a *SessionAuth) Middleware(mode Mode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, ok := extractBearer(w, r)
			if !ok {
				return
			}

			session, err := a.tokens.Authenticate(rawToken)
			if err != nil {
				a.logger.Debug("Сессионный токен не прошёл проверку",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				if errors.Is(err, token.ErrTokenExpired) {
					apierrors.Unauthorized(w, apierrors.CodeTokenExpired, "Сессионный токен просрочен")
					return
				}
				apierrors.Unauthorized(w, apierrors.CodeTokenInvalid, "Невалидный сессионный токен")
				return
			}

			principal := &Principal{
				Subject: session.Subject,
				Role:    session.Role,
			}

			if mode == ModeRecheckRole {
				user, err := a.resolver.ResolveActive(r.Context(), session.Subject)
				if err != nil {
					if errors.Is(err, service.ErrSubjectNotFound) {
						apierrors.SubjectNotFound(w)
						return
					}
					a.logger.Error("Ошибка резолюции записи авторизации",
						slog.String("subject", session.Subject),
						slog.String("error", err.Error()),
					)
					apierrors.StorageError(w)
					return
				}
				principal.Role = user.Role
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearer извлекает Bearer token из заголовка Authorization.
// При ошибке пишет 401 и возвращает false.
func extractBearer(w http.ResponseWriter, r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		apierrors.Unauthorized(w, apierrors.CodeMissingCredential, "Отсутствует заголовок Authorization")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		apierrors.Unauthorized(w, apierrors.CodeMissingCredential, "Неверный формат Authorization: ожидается Bearer <token>")
		return "", false
	}
	if parts[1] == "" {
		apierrors.Unauthorized(w, apierrors.CodeMissingCredential, "Пустой Bearer token")
		return "", false
	}
	return parts[1], true
}

// RequireRole возвращает middleware, требующий роль не ниже указанной.
// Должен использоваться ПОСЛЕ SessionAuth.Middleware().
// Ответ 403 структурно одинаков для любого аутентифицированного
// субъекта с недостаточной ролью: существование ресурса не раскрывается.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				apierrors.Unauthorized(w, apierrors.CodeMissingCredential, "Отсутствует субъект в контексте")
				return
			}

			if !rbac.Satisfies(principal.Role, role) {
				apierrors.Forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// --- Context helpers ---

// PrincipalFromContext извлекает Principal из контекста запроса.
// Возвращает nil, если субъект не найден.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(ContextKeyPrincipal).(*Principal)
	return principal
}

// SubjectFromContext извлекает subject из контекста запроса.
// Возвращает пустую строку, если субъект не найден.
func SubjectFromContext(ctx context.Context) string {
	principal := PrincipalFromContext(ctx)
	if principal == nil {
		return ""
	}
	return principal.Subject
}
