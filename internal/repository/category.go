package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actiplan/api-module/internal/domain/model"
)

// CategoryRepository — CRUD для таблицы categories.
// Все операции скоупированы владельцем (subject): запись другого
// владельца неотличима от отсутствующей.
type CategoryRepository interface {
	// Create создаёт категорию.
	Create(ctx context.Context, c *model.Category) error
	// GetByID возвращает категорию по id в пределах владельца.
	GetByID(ctx context.Context, subject, id string) (*model.Category, error)
	// ListBySubject возвращает категории владельца.
	ListBySubject(ctx context.Context, subject string, limit, offset int) ([]*model.Category, error)
	// Update обновляет название и изображение категории владельца.
	Update(ctx context.Context, c *model.Category) error
	// Delete удаляет категорию владельца (активности каскадно).
	Delete(ctx context.Context, subject, id string) error
}

// categoryRepo — реализация CategoryRepository.
type categoryRepo struct {
	db DBTX
}

// NewCategoryRepository создаёт репозиторий категорий.
func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepo{db: db}
}

const categoryColumns = `id, subject, name, picture, created_at, updated_at`

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (id, subject, name, picture)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, c.ID, c.Subject, c.Name, c.Picture).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("ошибка создания категории: %w", err)
	}
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, subject, id string) (*model.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE subject = $1 AND id = $2`, categoryColumns)

	c := &model.Category{}
	err := r.db.QueryRow(ctx, query, subject, id).Scan(
		&c.ID, &c.Subject, &c.Name, &c.Picture, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения категории: %w", err)
	}
	return c, nil
}

func (r *categoryRepo) ListBySubject(ctx context.Context, subject string, limit, offset int) ([]*model.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		WHERE subject = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, categoryColumns)

	rows, err := r.db.Query(ctx, query, subject, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка категорий: %w", err)
	}
	defer rows.Close()

	var result []*model.Category
	for rows.Next() {
		c := &model.Category{}
		if err := rows.Scan(
			&c.ID, &c.Subject, &c.Name, &c.Picture, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования категории: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET name = $3, picture = $4, updated_at = now()
		WHERE subject = $1 AND id = $2
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, c.Subject, c.ID, c.Name, c.Picture).Scan(&c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления категории: %w", err)
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, subject, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE subject = $1 AND id = $2`, subject, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления категории: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
