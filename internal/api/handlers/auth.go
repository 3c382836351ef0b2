// auth.go — обработчики входа и текущего субъекта.
package handlers

import (
	"net/http"
	"strings"
	"time"

	apierrors "github.com/actiplan/api-module/internal/api/errors"
	"github.com/actiplan/api-module/internal/api/middleware"
	"github.com/actiplan/api-module/internal/domain/model"
)

// loginResponse — ответ POST /api/v1/auth/login.
type loginResponse struct {
	Message   string `json:"message"`
	Subject   string `json:"subject"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// userResponse — представление записи авторизации в ответах API.
type userResponse struct {
	Subject     string    `json:"subject"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		Subject:     u.Subject,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Login — POST /api/v1/auth/login.
// Принимает удостоверение внешнего IdP в заголовке Authorization,
// возвращает сессионный токен с ролью из таблицы users.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	credential, ok := bearerCredential(w, r)
	if !ok {
		return
	}

	res, err := h.auth.Login(r.Context(), credential)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:   "Вход выполнен",
		Subject:   res.User.Subject,
		Role:      res.User.Role,
		Token:     res.Token,
		ExpiresIn: int64(time.Until(res.ExpiresAt).Seconds()),
	})
}

// Me — GET /api/v1/auth/me.
// Возвращает актуальную запись авторизации текущего субъекта.
// Маршрут работает в re-check режиме: роль и статус всегда свежие.
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromContext(r.Context())
	if subject == "" {
		apierrors.Unauthorized(w, apierrors.CodeMissingCredential, "Отсутствует субъект в контексте")
		return
	}

	user, err := h.auth.ResolveActive(r.Context(), subject)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// bearerCredential извлекает удостоверение IdP из заголовка Authorization.
// При ошибке пишет 401 и возвращает false.
func bearerCredential(w http.ResponseWriter, r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		apierrors.Unauthorized(w, apierrors.CodeMissingCredential, "Отсутствует заголовок Authorization")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		apierrors.Unauthorized(w, apierrors.CodeMissingCredential, "Неверный формат Authorization: ожидается Bearer <token>")
		return "", false
	}
	return parts[1], true
}
