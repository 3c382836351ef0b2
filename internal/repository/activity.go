package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actiplan/api-module/internal/domain/model"
)

// ActivityRepository — CRUD для таблицы activities.
// Операции скоупированы владельцем, как и в CategoryRepository.
type ActivityRepository interface {
	// Create создаёт активность. Категория должна существовать
	// и принадлежать тому же владельцу (FK + фильтр по subject).
	Create(ctx context.Context, a *model.Activity) error
	// GetByID возвращает активность по id в пределах владельца.
	GetByID(ctx context.Context, subject, id string) (*model.Activity, error)
	// ListByCategory возвращает активности категории владельца.
	ListByCategory(ctx context.Context, subject, categoryID string, limit, offset int) ([]*model.Activity, error)
	// Update обновляет название и изображение активности владельца.
	Update(ctx context.Context, a *model.Activity) error
	// Delete удаляет активность владельца.
	Delete(ctx context.Context, subject, id string) error
}

// activityRepo — реализация ActivityRepository.
type activityRepo struct {
	db DBTX
}

// NewActivityRepository создаёт репозиторий активностей.
func NewActivityRepository(db DBTX) ActivityRepository {
	return &activityRepo{db: db}
}

const activityColumns = `id, subject, category_id, name, picture, created_at, updated_at`

func (r *activityRepo) Create(ctx context.Context, a *model.Activity) error {
	query := `
		INSERT INTO activities (id, subject, category_id, name, picture)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, a.ID, a.Subject, a.CategoryID, a.Name, a.Picture).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка создания активности: %w", err)
	}
	return nil
}

func (r *activityRepo) GetByID(ctx context.Context, subject, id string) (*model.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE subject = $1 AND id = $2`, activityColumns)

	a := &model.Activity{}
	err := r.db.QueryRow(ctx, query, subject, id).Scan(
		&a.ID, &a.Subject, &a.CategoryID, &a.Name, &a.Picture, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения активности: %w", err)
	}
	return a, nil
}

func (r *activityRepo) ListByCategory(ctx context.Context, subject, categoryID string, limit, offset int) ([]*model.Activity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM activities
		WHERE subject = $1 AND category_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, activityColumns)

	rows, err := r.db.Query(ctx, query, subject, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка активностей: %w", err)
	}
	defer rows.Close()

	var result []*model.Activity
	for rows.Next() {
		a := &model.Activity{}
		if err := rows.Scan(
			&a.ID, &a.Subject, &a.CategoryID, &a.Name, &a.Picture, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования активности: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *activityRepo) Update(ctx context.Context, a *model.Activity) error {
	query := `
		UPDATE activities
		SET name = $3, picture = $4, updated_at = now()
		WHERE subject = $1 AND id = $2
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, a.Subject, a.ID, a.Name, a.Picture).Scan(&a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления активности: %w", err)
	}
	return nil
}

func (r *activityRepo) Delete(ctx context.Context, subject, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM activities WHERE subject = $1 AND id = $2`, subject, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления активности: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
