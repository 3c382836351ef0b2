// categories.go — обработчики категорий.
// Владелец всегда берётся из сессии; catalog-маршруты читают
// общий каталог (владелец model.DefaultSubject), admin-маршруты
// управляют им.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/actiplan/api-module/internal/api/errors"
	"github.com/actiplan/api-module/internal/api/middleware"
	"github.com/actiplan/api-module/internal/domain/model"
)

// categoryRequest — тело POST/PUT категории.
type categoryRequest struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// categoryResponse — представление категории в ответах API.
type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryResponse(c *model.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Picture:   c.Picture,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// categoryListResponse — ответ списочных операций.
type categoryListResponse struct {
	Items []categoryResponse `json:"items"`
}

func toCategoryListResponse(list []*model.Category) categoryListResponse {
	items := make([]categoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toCategoryResponse(c))
	}
	return categoryListResponse{Items: items}
}

// requireSubject извлекает subject сессии или пишет 401.
func requireSubject(w http.ResponseWriter, r *http.Request) (string, bool) {
	subject := middleware.SubjectFromContext(r.Context())
	if subject == "" {
		apierrors.Unauthorized(w, apierrors.CodeMissingCredential, "Отсутствует субъект в контексте")
		return "", false
	}
	return subject, true
}

// listCategories — общий код GET списка категорий для указанного владельца.
func (h *APIHandler) listCategories(w http.ResponseWriter, r *http.Request, subject string) {
	limit, offset := paginationParams(r)

	list, err := h.categories.List(r.Context(), subject, limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryListResponse(list))
}

// createCategory — общий код POST категории для указанного владельца.
func (h *APIHandler) createCategory(w http.ResponseWriter, r *http.Request, subject string) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.categories.Create(r.Context(), subject, req.Name, req.Picture)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(c))
}

// updateCategory — общий код PUT категории для указанного владельца.
func (h *APIHandler) updateCategory(w http.ResponseWriter, r *http.Request, subject string) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.categories.Update(r.Context(), subject, chi.URLParam(r, "id"), req.Name, req.Picture)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(c))
}

// deleteCategory — общий код DELETE категории для указанного владельца.
func (h *APIHandler) deleteCategory(w http.ResponseWriter, r *http.Request, subject string) {
	if err := h.categories.Delete(r.Context(), subject, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Категории владельца ---

// ListCategories — GET /api/v1/categories.
func (h *APIHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	subject, ok := requireSubject(w, r)
	if !ok {
		return
	}
	h.listCategories(w, r, subject)
}

// CreateCategory — POST /api/v1/categories.
func (h *APIHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	subject, ok := requireSubject(w, r)
	if !ok {
		return
	}
	h.createCategory(w, r, subject)
}

// UpdateCategory — PUT /api/v1/categories/{id}.
func (h *APIHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	subject, ok := requireSubject(w, r)
	if !ok {
		return
	}
	h.updateCategory(w, r, subject)
}

// DeleteCategory — DELETE /api/v1/categories/{id}.
func (h *APIHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	subject, ok := requireSubject(w, r)
	if !ok {
		return
	}
	h.deleteCategory(w, r, subject)
}

// --- Общий каталог ---

// ListCatalogCategories — GET /api/v1/catalog/categories.
// Read-only представление общего каталога для любого субъекта с сессией.
func (h *APIHandler) ListCatalogCategories(w http.ResponseWriter, r *http.Request) {
	h.listCategories(w, r, model.DefaultSubject)
}

// CreateCatalogCategory — POST /api/v1/admin/categories.
func (h *APIHandler) CreateCatalogCategory(w http.ResponseWriter, r *http.Request) {
	h.createCategory(w, r, model.DefaultSubject)
}

// UpdateCatalogCategory — PUT /api/v1/admin/categories/{id}.
func (h *APIHandler) UpdateCatalogCategory(w http.ResponseWriter, r *http.Request) {
	h.updateCategory(w, r, model.DefaultSubject)
}

// DeleteCatalogCategory — DELETE /api/v1/admin/categories/{id}.
func (h *APIHandler) DeleteCatalogCategory(w http.ResponseWriter, r *http.Request) {
	h.deleteCategory(w, r, model.DefaultSubject)
}
