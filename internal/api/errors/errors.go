// Пакет errors — конструкторы стандартных ошибок API.
// Единый формат: {"code": "...", "message": "..."}.
// Детали внутренних ошибок (драйвер БД, stack trace) в ответ не попадают —
// только в серверный лог.
package errors

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок API.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeMissingCredential  = "MISSING_CREDENTIAL"
	CodeInvalidCredential  = "INVALID_CREDENTIAL"
	CodeExpiredCredential  = "EXPIRED_CREDENTIAL"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeSubjectNotFound    = "SUBJECT_NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeIDPUnavailable     = "IDP_UNAVAILABLE"
	CodeStorageError       = "STORAGE_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// statusCode — HTTP статус-код, code — машиночитаемый код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Code:    code,
		Message: message,
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// Unauthorized — 401 с указанным кодом (credential / token варианты).
func Unauthorized(w http.ResponseWriter, code, message string) {
	WriteError(w, http.StatusUnauthorized, code, message)
}

// Forbidden — 403 недостаточно прав.
// Тело одинаково для любого аутентифицированного субъекта:
// по ответу нельзя понять, существует ли запись.
func Forbidden(w http.ResponseWriter) {
	WriteError(w, http.StatusForbidden, CodeForbidden, "Недостаточно прав")
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// SubjectNotFound — 404 запись авторизации не найдена или отключена.
func SubjectNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, CodeSubjectNotFound, "Запись авторизации не найдена")
}

// Conflict — 409 конфликт (дублирующийся ресурс).
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeConflict, message)
}

// IDPUnavailable — 500 Identity Provider недоступен.
func IDPUnavailable(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, CodeIDPUnavailable, "Identity Provider недоступен")
}

// StorageError — 500 ошибка хранилища.
func StorageError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, CodeStorageError, "Ошибка хранилища")
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, "Внутренняя ошибка сервера")
}
