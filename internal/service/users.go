// users.go — административное управление записями авторизации.
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
	"github.com/actiplan/api-module/internal/repository"
)

// AdminUserService — сервис административных операций над users.
// Единственный путь изменения роли и статуса: после каждого изменения
// соответствующая запись кэша ролей инвалидируется.
type AdminUserService struct {
	users        repository.UserRepository
	roles        *cache.RoleCache
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewAdminUserService создаёт сервис управления записями авторизации.
func NewAdminUserService(
	users repository.UserRepository,
	roles *cache.RoleCache,
	queryTimeout time.Duration,
	logger *slog.Logger,
) *AdminUserService {
	return &AdminUserService{
		users:        users,
		roles:        roles,
		queryTimeout: queryTimeout,
		logger:       logger.With(slog.String("component", "admin_users_service")),
	}
}

// List возвращает записи с указанной ролью и их общее количество.
// Пустая роль означает member. Запись общего каталога в выдачу не попадает.
func (s *AdminUserService) List(ctx context.Context, role string, limit, offset int) ([]*model.User, int, error) {
	if role == "" {
		role = rbac.RoleMember
	}
	if !rbac.IsValidRole(role) {
		return nil, 0, ErrInvalidRole
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	users, err := s.users.ListByRole(dbCtx, role, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("получение списка записей: %w", err)
	}

	total, err := s.users.CountByRole(dbCtx, role)
	if err != nil {
		return nil, 0, fmt.Errorf("подсчёт записей: %w", err)
	}

	return users, total, nil
}

// UpdateRole устанавливает роль записи авторизации.
// Уже выпущенные сессионные токены несут прежнюю роль до истечения TTL;
// re-check режим видит новую роль сразу после инвалидации кэша.
func (s *AdminUserService) UpdateRole(ctx context.Context, subject, role string) (*model.User, error) {
	if subject == model.DefaultSubject {
		return nil, ErrReservedSubject
	}
	if !rbac.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.UpdateRole(dbCtx, subject, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("обновление роли: %w", err)
	}

	s.roles.Invalidate(subject)

	s.logger.Info("Роль записи изменена",
		slog.String("subject", subject),
		slog.String("role", role),
	)
	return user, nil
}

// UpdateStatus устанавливает статус записи авторизации.
// Отключение не отзывает уже выпущенные токены: в trust-режиме они
// действуют до истечения, в re-check режиме запись перестаёт
// резолвиться сразу после инвалидации кэша.
func (s *AdminUserService) UpdateStatus(ctx context.Context, subject, status string) (*model.User, error) {
	if subject == model.DefaultSubject {
		return nil, ErrReservedSubject
	}
	if !model.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.UpdateStatus(dbCtx, subject, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("обновление статуса: %w", err)
	}

	s.roles.Invalidate(subject)

	s.logger.Info("Статус записи изменён",
		slog.String("subject", subject),
		slog.String("status", status),
	)
	return user, nil
}
