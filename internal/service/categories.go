// categories.go — бизнес-логика категорий.
// Владелец (subject) всегда берётся из сессии вызывающего и никогда
// не принимается от клиента. Операции над общим каталогом используют
// тот же сервис с subject = model.DefaultSubject на уровне handlers.
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

// maxNameLength — максимальная длина названия категории и активности.
const maxNameLength = 255

// CategoryService — CRUD категорий в пределах владельца.
type CategoryService struct {
	categories   repository.CategoryRepository
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewCategoryService создаёт сервис категорий.
func NewCategoryService(
	categories repository.CategoryRepository,
	queryTimeout time.Duration,
	logger *slog.Logger,
) *CategoryService {
	return &CategoryService{
		categories:   categories,
		queryTimeout: queryTimeout,
		logger:       logger.With(slog.String("component", "categories_service")),
	}
}

// validateName проверяет название категории или активности.
func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: название не может быть пустым", ErrValidation)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: название длиннее %d символов", ErrValidation, maxNameLength)
	}
	return nil
}

// validateID проверяет формат идентификатора ресурса.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: некорректный идентификатор %q", ErrValidation, id)
	}
	return nil
}

// List возвращает категории владельца.
func (s *CategoryService) List(ctx context.Context, subject string, limit, offset int) ([]*model.Category, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	list, err := s.categories.ListBySubject(dbCtx, subject, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("получение категорий: %w", err)
	}
	return list, nil
}

// Create создаёт категорию владельца.
func (s *CategoryService) Create(ctx context.Context, subject, name, picture string) (*model.Category, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	c := &model.Category{
		ID:      uuid.NewString(),
		Subject: subject,
		Name:    strings.TrimSpace(name),
		Picture: picture,
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.categories.Create(dbCtx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("создание категории: %w", err)
	}

	s.logger.Info("Категория создана",
		slog.String("subject", subject),
		slog.String("category_id", c.ID),
	)
	return c, nil
}

// Get возвращает категорию владельца по id.
func (s *CategoryService) Get(ctx context.Context, subject, id string) (*model.Category, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	c, err := s.categories.GetByID(dbCtx, subject, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение категории: %w", err)
	}
	return c, nil
}

// Update обновляет название и изображение категории владельца.
func (s *CategoryService) Update(ctx context.Context, subject, id, name, picture string) (*model.Category, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	c := &model.Category{
		ID:      id,
		Subject: subject,
		Name:    strings.TrimSpace(name),
		Picture: picture,
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.categories.Update(dbCtx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление категории: %w", err)
	}
	return c, nil
}

// Delete удаляет категорию владельца вместе с её активностями.
func (s *CategoryService) Delete(ctx context.Context, subject, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.categories.Delete(dbCtx, subject, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление категории: %w", err)
	}

	s.logger.Info("Категория удалена",
		slog.String("subject", subject),
		slog.String("category_id", id),
	)
	return nil
}
