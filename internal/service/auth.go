// Пакет service — бизнес-логика api-module.
// auth.go — вход по удостоверению IdP и резолюция активной записи авторизации.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/actiplan/api-module/internal/cache"
	"github.com/actiplan/api-module/internal/domain/model"
	"github.com/actiplan/api-module/internal/domain/rbac"
	"github.com/actiplan/api-module/internal/idp"
	"github.com/actiplan/api-module/internal/repository"
	"github.com/actiplan/api-module/internal/token"
)

// CredentialVerifier — проверка удостоверения внешнего IdP.
// Реализуется idp.Verifier; в тестах подменяется фейком.
type CredentialVerifier interface {
	Verify(ctx context.Context, rawToken string) (*idp.VerifiedIdentity, error)
}

// AuthService — вход и резолюция субъектов.
// Связывает три шага: проверка удостоверения IdP, реконсиляция записи
// авторизации в users, выпуск сессионного токена. Роль берётся только
// из таблицы users — удостоверение IdP на неё не влияет.
type AuthService struct {
	verifier     CredentialVerifier
	users        repository.UserRepository
	tokens       *token.Manager
	roles        *cache.RoleCache
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(
	verifier CredentialVerifier,
	users repository.UserRepository,
	tokens *token.Manager,
	roles *cache.RoleCache,
	queryTimeout time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		verifier:     verifier,
		users:        users,
		tokens:       tokens,
		roles:        roles,
		queryTimeout: queryTimeout,
		logger:       logger.With(slog.String("component", "auth_service")),
	}
}

// LoginResult — результат успешного входа.
type LoginResult struct {
	// User — авторитетная запись после реконсиляции
	User *model.User
	// Token — сессионный токен
	Token string
	// ExpiresAt — время истечения токена
	ExpiresAt time.Time
}

// Login выполняет вход по удостоверению внешнего IdP.
// Последовательность: проверка подписи и issuer удостоверения,
// атомарная реконсиляция записи в users, проверка статуса, выпуск
// сессионного токена с ролью из записи.
// Ошибки idp.Err* проходят наверх без изменений; отключённая запись
// маппится в ErrSubjectNotFound — субъект без активной записи сессию
// получить не может.
func (s *AuthService) Login(ctx context.Context, rawCredential string) (*LoginResult, error) {
	identity, err := s.verifier.Verify(ctx, rawCredential)
	if err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.Reconcile(dbCtx, repository.ReconcileInput{
		Subject:     identity.Subject,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		DefaultRole: rbac.DefaultRole,
	})
	if err != nil {
		return nil, fmt.Errorf("реконсиляция записи авторизации: %w", err)
	}

	if user.Status != model.StatusActive {
		s.logger.Warn("Попытка входа отключённого субъекта",
			slog.String("subject", user.Subject),
		)
		return nil, ErrSubjectNotFound
	}

	tokenStr, expiresAt, err := s.tokens.Issue(user.Subject, user.Role)
	if err != nil {
		return nil, fmt.Errorf("выпуск сессионного токена: %w", err)
	}

	s.roles.Set(user.Subject, user)

	s.logger.Info("Вход выполнен",
		slog.String("subject", user.Subject),
		slog.String("role", user.Role),
	)

	return &LoginResult{
		User:      user,
		Token:     tokenStr,
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveActive возвращает активную запись авторизации по subject.
// Используется re-check режимом аутентификации и /auth/me: отсутствующая
// или отключённая запись → ErrSubjectNotFound. Кэш применяется как
// read-through; запись в кэше всегда активна (инвалидация при
// административных изменениях плюс TTL).
func (s *AuthService) ResolveActive(ctx context.Context, subject string) (*model.User, error) {
	if user, ok := s.roles.Get(subject); ok {
		return user, nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.GetBySubject(dbCtx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("получение записи авторизации: %w", err)
	}

	if user.Status != model.StatusActive {
		return nil, ErrSubjectNotFound
	}

	s.roles.Set(subject, user)
	return user, nil
}
