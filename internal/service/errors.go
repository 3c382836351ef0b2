// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrInvalidRole — некорректная роль.
	ErrInvalidRole = errors.New("некорректная роль: допустимые значения — member, admin")
	// ErrInvalidStatus — некорректный статус.
	ErrInvalidStatus = errors.New("некорректный статус: допустимые значения — active, disabled")
	// ErrSubjectNotFound — запись авторизации отсутствует или отключена.
	// Наружу оба случая неотличимы.
	ErrSubjectNotFound = errors.New("запись авторизации не найдена")
	// ErrReservedSubject — операция над зарезервированным subject общего каталога.
	ErrReservedSubject = errors.New("зарезервированный subject")
)
