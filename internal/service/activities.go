// activities.go — бизнес-логика активностей.
// Активность принадлежит категории того же владельца: FK гарантирует
// существование категории, но принадлежность владельцу проверяется
// здесь явно — иначе активность можно было бы привязать к чужой категории.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/actiplan/api-module/internal/domain/model"
	"github.com/actiplan/api-module/internal/repository"
)

// ActivityService — CRUD активностей в пределах владельца.
type ActivityService struct {
	activities   repository.ActivityRepository
	categories   repository.CategoryRepository
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewActivityService создаёт сервис активностей.
func NewActivityService(
	activities repository.ActivityRepository,
	categories repository.CategoryRepository,
	queryTimeout time.Duration,
	logger *slog.Logger,
) *ActivityService {
	return &ActivityService{
		activities:   activities,
		categories:   categories,
		queryTimeout: queryTimeout,
		logger:       logger.With(slog.String("component", "activities_service")),
	}
}

// ListByCategory возвращает активности категории владельца.
func (s *ActivityService) ListByCategory(ctx context.Context, subject, categoryID string, limit, offset int) ([]*model.Activity, error) {
	if err := validateID(categoryID); err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	list, err := s.activities.ListByCategory(dbCtx, subject, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("получение активностей: %w", err)
	}
	return list, nil
}

// Create создаёт активность в категории владельца.
// Чужая или отсутствующая категория → ErrNotFound, без различия.
func (s *ActivityService) Create(ctx context.Context, subject, categoryID, name, picture string) (*model.Activity, error) {
	if err := validateID(categoryID); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	// Принадлежность категории владельцу.
	if _, err := s.categories.GetByID(dbCtx, subject, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("проверка категории: %w", err)
	}

	a := &model.Activity{
		ID:         uuid.NewString(),
		Subject:    subject,
		CategoryID: categoryID,
		Name:       strings.TrimSpace(name),
		Picture:    picture,
	}

	if err := s.activities.Create(dbCtx, a); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrConflict
		case errors.Is(err, repository.ErrNotFound):
			// Категория удалена между проверкой и вставкой.
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("создание активности: %w", err)
	}

	s.logger.Info("Активность создана",
		slog.String("subject", subject),
		slog.String("activity_id", a.ID),
		slog.String("category_id", categoryID),
	)
	return a, nil
}

// Get возвращает активность владельца по id.
func (s *ActivityService) Get(ctx context.Context, subject, id string) (*model.Activity, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	a, err := s.activities.GetByID(dbCtx, subject, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение активности: %w", err)
	}
	return a, nil
}

// Update обновляет название и изображение активности владельца.
// Перенос между категориями не поддерживается.
func (s *ActivityService) Update(ctx context.Context, subject, id, name, picture string) (*model.Activity, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	a, err := s.activities.GetByID(dbCtx, subject, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение активности: %w", err)
	}

	a.Name = strings.TrimSpace(name)
	a.Picture = picture

	if err := s.activities.Update(dbCtx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление активности: %w", err)
	}
	return a, nil
}

// Delete удаляет активность владельца.
func (s *ActivityService) Delete(ctx context.Context, subject, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.activities.Delete(dbCtx, subject, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление активности: %w", err)
	}

	s.logger.Info("Активность удалена",
		slog.String("subject", subject),
		slog.String("activity_id", id),
	)
	return nil
}
