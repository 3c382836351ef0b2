// users.go — административные обработчики записей авторизации.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// userListResponse — ответ GET /api/v1/admin/users.
type userListResponse struct {
	Items  []userResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// roleUpdateRequest — тело PUT /api/v1/admin/users/{subject}/role.
type roleUpdateRequest struct {
	Role string `json:"role"`
}

// statusUpdateRequest — тело PUT /api/v1/admin/users/{subject}/status.
type statusUpdateRequest struct {
	Status string `json:"status"`
}

// ListUsers — GET /api/v1/admin/users?role=&limit=&offset=.
// По умолчанию возвращает записи с ролью member.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	role := r.URL.Query().Get("role")

	users, total, err := h.adminUsers.List(r.Context(), role, limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, userListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// UpdateUserRole — PUT /api/v1/admin/users/{subject}/role.
// Единственный путь изменения роли.
func (h *APIHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req roleUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.adminUsers.UpdateRole(r.Context(), chi.URLParam(r, "subject"), req.Role)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateUserStatus — PUT /api/v1/admin/users/{subject}/status.
func (h *APIHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.adminUsers.UpdateStatus(r.Context(), chi.URLParam(r, "subject"), req.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
