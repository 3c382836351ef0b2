// handler.go — основной обработчик API api-module.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apierrors "github.com/actiplan/api-module/internal/api/errors"
	"github.com/actiplan/api-module/internal/idp"
	"github.com/actiplan/api-module/internal/service"
)

// APIHandler — основной обработчик API.
type APIHandler struct {
	health     *HealthHandler
	auth       *service.AuthService
	adminUsers *service.AdminUserService
	categories *service.CategoryService
	activities *service.ActivityService
	logger     *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	auth *service.AuthService,
	adminUsers *service.AdminUserService,
	categories *service.CategoryService,
	activities *service.ActivityService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:     health,
		auth:       auth,
		adminUsers: adminUsers,
		categories: categories,
		activities: activities,
		logger:     logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает тело запроса в dst. При ошибке пишет 400 и
// возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса: ожидается JSON")
		return false
	}
	return true
}

// paginationParams извлекает limit и offset из query-параметров.
// Некорректные значения заменяются значениями по умолчанию.
func paginationParams(r *http.Request) (limit, offset int) {
	limit = 100
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	if limit < 1 {
		limit = 1
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// writeServiceError маппит ошибку сервисного слоя на HTTP-ответ.
// Детали внутренних ошибок уходят только в лог.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrReservedSubject):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Ресурс не найден")
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, "Ресурс уже существует")
	case errors.Is(err, service.ErrSubjectNotFound):
		apierrors.SubjectNotFound(w)
	case errors.Is(err, idp.ErrExpiredCredential):
		apierrors.Unauthorized(w, apierrors.CodeExpiredCredential, "Просроченное удостоверение")
	case errors.Is(err, idp.ErrInvalidCredential):
		apierrors.Unauthorized(w, apierrors.CodeInvalidCredential, "Невалидное удостоверение")
	case errors.Is(err, idp.ErrUnavailable):
		h.logger.Error("IdP недоступен", slog.String("error", err.Error()))
		apierrors.IDPUnavailable(w)
	default:
		h.logger.Error("Ошибка сервисного слоя", slog.String("error", err.Error()))
		apierrors.StorageError(w)
	}
}
