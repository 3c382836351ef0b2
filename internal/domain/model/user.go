// Пакет model — доменные модели api-module.
package model

import "time"

// User — локальная запись авторизации субъекта.
// Субъект аутентифицируется во внешнем IdP, но роль и статус
// принадлежат только этой записи (единственный источник истины для авторизации).
type User struct {
	// Subject — стабильный идентификатор субъекта, выданный IdP (sub)
	Subject string
	// Email — адрес электронной почты (снимок профиля, может быть пустым)
	Email string
	// DisplayName — отображаемое имя (снимок профиля, может быть пустым)
	DisplayName string
	// Role — роль (member, admin). Назначается только сервером
	Role string
	// Status — статус аккаунта (active, disabled)
	Status string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// Статусы аккаунта.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// IsValidStatus проверяет, является ли строка допустимым статусом.
func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusDisabled
}
