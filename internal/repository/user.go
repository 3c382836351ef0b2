package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actiplan/api-module/internal/domain/model"
)

// UserRepository — доступ к таблице users (записи авторизации).
type UserRepository interface {
	// Reconcile атомарно создаёт запись для subject с ролью defaultRole
	// (первый вход) или обновляет снимок профиля существующей.
	// Роль и статус существующей записи никогда не изменяются.
	Reconcile(ctx context.Context, identity ReconcileInput) (*model.User, error)
	// GetBySubject возвращает запись по subject.
	GetBySubject(ctx context.Context, subject string) (*model.User, error)
	// ListByRole возвращает записи с указанной ролью (с пагинацией).
	ListByRole(ctx context.Context, role string, limit, offset int) ([]*model.User, error)
	// CountByRole возвращает количество записей с указанной ролью.
	CountByRole(ctx context.Context, role string) (int, error)
	// UpdateRole устанавливает роль записи. Единственный путь изменения роли.
	UpdateRole(ctx context.Context, subject, role string) (*model.User, error)
	// UpdateStatus устанавливает статус записи (active / disabled).
	UpdateStatus(ctx context.Context, subject, status string) (*model.User, error)
}

// ReconcileInput — входные данные реконсиляции удостоверения.
type ReconcileInput struct {
	// Subject — идентификатор субъекта из IdP
	Subject string
	// Email — снимок профиля
	Email string
	// DisplayName — снимок профиля
	DisplayName string
	// DefaultRole — роль для новой записи
	DefaultRole string
}

// userRepo — реализация UserRepository.
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий записей авторизации.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `subject, email, display_name, role, status, created_at, updated_at`

// Reconcile выполняет upsert одним statement: при одновременных первых
// входах одного subject конфликт по первичному ключу разрешается
// атомарно — отдельная пара SELECT+INSERT здесь недопустима.
// ON CONFLICT обновляет только снимок профиля, role и status не трогает.
func (r *userRepo) Reconcile(ctx context.Context, in ReconcileInput) (*model.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (subject, email, display_name, role, status)
		VALUES ($1, $2, $3, $4, 'active')
		ON CONFLICT (subject) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			updated_at = now()
		RETURNING %s`, userColumns)

	u := &model.User{}
	err := r.db.QueryRow(ctx, query, in.Subject, in.Email, in.DisplayName, in.DefaultRole).Scan(
		&u.Subject, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка реконсиляции записи авторизации: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE subject = $1`, userColumns)

	u := &model.User{}
	err := r.db.QueryRow(ctx, query, subject).Scan(
		&u.Subject, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи авторизации: %w", err)
	}
	return u, nil
}

func (r *userRepo) ListByRole(ctx context.Context, role string, limit, offset int) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE role = $1 AND subject <> $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, userColumns)

	rows, err := r.db.Query(ctx, query, role, model.DefaultSubject, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка записей: %w", err)
	}
	defer rows.Close()

	var result []*model.User
	for rows.Next() {
		u := &model.User{}
		if err := rows.Scan(
			&u.Subject, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *userRepo) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1 AND subject <> $2`,
		role, model.DefaultSubject,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта записей: %w", err)
	}
	return count, nil
}

func (r *userRepo) UpdateRole(ctx context.Context, subject, role string) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET role = $2, updated_at = now()
		WHERE subject = $1
		RETURNING %s`, userColumns)

	u := &model.User{}
	err := r.db.QueryRow(ctx, query, subject, role).Scan(
		&u.Subject, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления роли: %w", err)
	}
	return u, nil
}

func (r *userRepo) UpdateStatus(ctx context.Context, subject, status string) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET status = $2, updated_at = now()
		WHERE subject = $1
		RETURNING %s`, userColumns)

	u := &model.User{}
	err := r.db.QueryRow(ctx, query, subject, status).Scan(
		&u.Subject, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления статуса: %w", err)
	}
	return u, nil
}
