// activities.go — обработчики активностей.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/actiplan/api-module/internal/api/errors"
	"github.com/actiplan/api-module/internal/domain/model"
)

// activityCreateRequest — тело POST активности.
type activityCreateRequest struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Picture    string `json:"picture"`
}

// activityUpdateRequest — тело PUT активности.
// Перенос между категориями не поддерживается, category_id не принимается.
type activityUpdateRequest struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// activityResponse — представление активности в ответах API.
type activityResponse struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	Picture    string    `json:"picture"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toActivityResponse(a *model.Activity) activityResponse {
	return activityResponse{
		ID:         a.ID,
		CategoryID: a.CategoryID,
		Name:       a.Name,
		Picture:    a.Picture,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// activityListResponse — ответ списочных операций.
type activityListResponse struct {
	Items []activityResponse `json:"items"`
}

func toActivityListResponse(list []*model.Activity) activityListResponse {
	items := make([]activityResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toActivityResponse(a))
	}
	return activityListResponse{Items: items}
}

// listActivities — общий код GET активностей для указанного владельца.
// category_id обязателен.
func (h *APIHandler) listActivities(w http.ResponseWriter, r *http.Request, subject string) {
	categoryID := r.URL.Query().Get("category_id")
	if categoryID == "" {
		apierrors.ValidationError(w, "Обязательный параметр category_id не задан")
		return
	}

	limit, offset := paginationParams(r)

	list, err := h.activities.ListByCategory(r.Context(), subject, categoryID, limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityListResponse(list))
}

// createActivity — общий код POST активности для указанного владельца.
func (h *APIHandler) createActivity(w http.ResponseWriter, r *http.Request, subject string) {
	var req activityCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.activities.Create(r.Context(), subject, req.CategoryID, req.Name, req.Picture)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toActivityResponse(a))
}

// updateActivity — общий код PUT активности для указанного владельца.
func (h *APIHandler) updateActivity(w http.ResponseWriter, r *http.Request, subject string) {
	var req activityUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.activities.Update(r.Context(), subject, chi.URLParam(r, "id"), req.Name, req.Picture)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityResponse(a))
}

// deleteActivity — общий код DELETE активности для указанного владельца.
func (h *APIHandler) deleteActivity(w http.ResponseWriter, r *http.Request, subject string) {
	if err := h.activities.Delete(r.Context(), subject, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Активности владельца ---

// ListActivities — GET /api/v1/activities?category_id=.
func (h *APIHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	subject, ok := requireSubject(w, r)
	if !ok {
		return
	}
	h.listActivities(w, r, subject)
}

// CreateActivity — POST /api/v1/activities.
func (h *APIHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	subject, ok := requireSubject(w, r)
	if !ok {
		return
	}
	h.createActivity(w, r, subject)
}

// UpdateActivity — PUT /api/v1/activities/{id}.
func (h *APIHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	subject, ok := requireSubject(w, r)
	if !ok {
		return
	}
	h.updateActivity(w, r, subject)
}

// DeleteActivity — DELETE /api/v1/activities/{id}.
func (h *APIHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	subject, ok := requireSubject(w, r)
	if !ok {
		return
	}
	h.deleteActivity(w, r, subject)
}

// --- Общий каталог ---

// ListCatalogActivities — GET /api/v1/catalog/activities?category_id=.
func (h *APIHandler) ListCatalogActivities(w http.ResponseWriter, r *http.Request) {
	h.listActivities(w, r, model.DefaultSubject)
}

// CreateCatalogActivity — POST /api/v1/admin/activities.
func (h *APIHandler) CreateCatalogActivity(w http.ResponseWriter, r *http.Request) {
	h.createActivity(w, r, model.DefaultSubject)
}

// UpdateCatalogActivity — PUT /api/v1/admin/activities/{id}.
func (h *APIHandler) UpdateCatalogActivity(w http.ResponseWriter, r *http.Request) {
	h.updateActivity(w, r, model.DefaultSubject)
}

// DeleteCatalogActivity — DELETE /api/v1/admin/activities/{id}.
func (h *APIHandler) DeleteCatalogActivity(w http.ResponseWriter, r *http.Request) {
	h.deleteActivity(w, r, model.DefaultSubject)
}
