package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/actiplan/api-module/internal/api/handlers"
	"github.com/actiplan/api-module/internal/api/middleware"
	"github.com/actiplan/api-module/internal/domain/model"
	"github.com/actiplan/api-module/internal/domain/rbac"
	"github.com/actiplan/api-module/internal/idp"
	"github.com/actiplan/api-module/internal/repository"
	"github.com/actiplan/api-module/internal/service"
	"github.com/actiplan/api-module/internal/token"
)

// --- In-memory репозитории для тестов маршрутов ---

type memStore struct {
	mu         sync.Mutex
	users      map[string]*model.User
	categories map[string]*model.Category
	activities map[string]*model.Activity
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*model.User{},
		categories: map[string]*model.Category{},
		activities: map[string]*model.Activity{},
	}
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Reconcile(_ context.Context, in repository.ReconcileInput) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[in.Subject]; ok {
		u.Email = in.Email
		u.DisplayName = in.DisplayName
		cp := *u
		return &cp, nil
	}
	u := &model.User{
		Subject:     in.Subject,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Role:        in.DefaultRole,
		Status:      model.StatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.s.users[in.Subject] = u
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetBySubject(_ context.Context, subject string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[subject]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) ListByRole(_ context.Context, role string, limit, offset int) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*model.User
	for _, u := range r.s.users {
		if u.Role == role && u.Subject != model.DefaultSubject {
			cp := *u
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Subject < all[j].Subject })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memUserRepo) CountByRole(_ context.Context, role string) (int, error) {
	list, _ := r.ListByRole(context.Background(), role, 1<<30, 0)
	return len(list), nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, subject, role string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[subject]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdateStatus(_ context.Context, subject, status string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[subject]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Status = status
	cp := *u
	return &cp, nil
}

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; ok {
		return repository.ErrConflict
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, subject, id string) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || c.Subject != subject {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) ListBySubject(_ context.Context, subject string, limit, offset int) ([]*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*model.Category
	for _, c := range r.s.categories {
		if c.Subject == subject {
			cp := *c
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.categories[c.ID]
	if !ok || existing.Subject != c.Subject {
		return repository.ErrNotFound
	}
	existing.Name = c.Name
	existing.Picture = c.Picture
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, subject, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || c.Subject != subject {
		return repository.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

type memActivityRepo struct{ s *memStore }

func (r *memActivityRepo) Create(_ context.Context, a *model.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.activities[a.ID]; ok {
		return repository.ErrConflict
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.s.activities[a.ID] = &cp
	return nil
}

func (r *memActivityRepo) GetByID(_ context.Context, subject, id string) (*model.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.activities[id]
	if !ok || a.Subject != subject {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memActivityRepo) ListByCategory(_ context.Context, subject, categoryID string, limit, offset int) ([]*model.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*model.Activity
	for _, a := range r.s.activities {
		if a.Subject == subject && a.CategoryID == categoryID {
			cp := *a
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memActivityRepo) Update(_ context.Context, a *model.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.activities[a.ID]
	if !ok || existing.Subject != a.Subject {
		return repository.ErrNotFound
	}
	existing.Name = a.Name
	existing.Picture = a.Picture
	return nil
}

func (r *memActivityRepo) Delete(_ context.Context, subject, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.activities[id]
	if !ok || a.Subject != subject {
		return repository.ErrNotFound
	}
	delete(r.s.activities, id)
	return nil
}

// stubVerifier — CredentialVerifier, принимающий удостоверения вида
// "valid:<subject>". Всё остальное невалидно.
type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, raw string) (*idp.VerifiedIdentity, error) {
	subject, ok := strings.CutPrefix(raw, "valid:")
	if !ok {
		return nil, idp.ErrInvalidCredential
	}
	return &idp.VerifiedIdentity{
		Subject:     subject,
		Email:       subject + "@example.com",
		DisplayName: "Тест " + subject,
	}, nil
}

// --- Фикстура ---

type fixture struct {
	router http.Handler
	store  *memStore
	tokens *token.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemStore()

	// Запись общего каталога, отключена.
	store.users[model.DefaultSubject] = &model.User{
		Subject: model.DefaultSubject,
		Role:    rbac.RoleMember,
		Status:  model.StatusDisabled,
	}

	userRepo := &memUserRepo{s: store}
	categoryRepo := &memCategoryRepo{s: store}
	activityRepo := &memActivityRepo{s: store}

	tokens := token.New([]byte("test-secret-0123456789-0123456789"), "test-issuer", time.Hour)
	queryTimeout := 5 * time.Second

	authSvc := service.NewAuthService(stubVerifier{}, userRepo, tokens, nil, queryTimeout, logger)
	adminUsersSvc := service.NewAdminUserService(userRepo, nil, queryTimeout, logger)
	categoriesSvc := service.NewCategoryService(categoryRepo, queryTimeout, logger)
	activitiesSvc := service.NewActivityService(activityRepo, categoryRepo, queryTimeout, logger)

	apiHandler := handlers.NewAPIHandler(
		handlers.NewHealthHandler(nil, nil),
		authSvc,
		adminUsersSvc,
		categoriesSvc,
		activitiesSvc,
		logger,
	)
	sessionAuth := middleware.NewSessionAuth(tokens, authSvc, logger)

	return &fixture{
		router: NewRouter(apiHandler, sessionAuth, logger),
		store:  store,
		tokens: tokens,
	}
}

func (f *fixture) do(t *testing.T, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// login выполняет вход субъекта и возвращает сессионный токен.
func (f *fixture) login(t *testing.T, subject string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "valid:"+subject, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, тело: %s", subject, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("разбор ответа login: %v", err)
	}
	return resp.Token
}

func decodeField(t *testing.T, rec *httptest.ResponseRecorder, field string) string {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("разбор ответа: %v", err)
	}
	v, _ := m[field].(string)
	return v
}

// --- Тесты ---

func TestLoginFlow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "valid:sub-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, тело: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message   string `json:"message"`
		Subject   string `json:"subject"`
		Role      string `json:"role"`
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("разбор ответа: %v", err)
	}
	if resp.Subject != "sub-1" || resp.Role != rbac.RoleMember {
		t.Errorf("subject/role = %s/%s", resp.Subject, resp.Role)
	}
	if resp.ExpiresIn <= 0 || resp.ExpiresIn > 3600 {
		t.Errorf("expires_in = %d", resp.ExpiresIn)
	}

	// Токен пригоден для защищённых маршрутов.
	rec = f.do(t, http.MethodGet, "/api/v1/auth/me", resp.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status = %d, тело: %s", rec.Code, rec.Body.String())
	}
	if got := decodeField(t, rec, "email"); got != "sub-1@example.com" {
		t.Errorf("email = %q", got)
	}
}

func TestLogin_InvalidCredential(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "garbage", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, ожидается 401", rec.Code)
	}
	if code := decodeField(t, rec, "code"); code != "INVALID_CREDENTIAL" {
		t.Errorf("code = %q", code)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/auth/login", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("без заголовка: status = %d, ожидается 401", rec.Code)
	}
}

func TestLogin_DisabledSubject(t *testing.T) {
	f := newFixture(t)
	f.store.users["sub-off"] = &model.User{
		Subject: "sub-off", Role: rbac.RoleMember, Status: model.StatusDisabled,
	}

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "valid:sub-off", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, ожидается 404", rec.Code)
	}
	if code := decodeField(t, rec, "code"); code != "SUBJECT_NOT_FOUND" {
		t.Errorf("code = %q", code)
	}
}

func TestCategoryActivityFlow(t *testing.T) {
	f := newFixture(t)
	tok := f.login(t, "sub-1")

	// Создание категории
	rec := f.do(t, http.MethodPost, "/api/v1/categories", tok, `{"name":"Спорт","picture":"s.png"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: status = %d, тело: %s", rec.Code, rec.Body.String())
	}
	catID := decodeField(t, rec, "id")

	// Создание активности
	rec = f.do(t, http.MethodPost, "/api/v1/activities", tok,
		`{"category_id":"`+catID+`","name":"Бег","picture":""}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create activity: status = %d, тело: %s", rec.Code, rec.Body.String())
	}
	actID := decodeField(t, rec, "id")

	// Список активностей категории
	rec = f.do(t, http.MethodGet, "/api/v1/activities?category_id="+catID, tok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list activities: status = %d", rec.Code)
	}
	var list struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("разбор списка: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != actID {
		t.Errorf("items = %+v", list.Items)
	}

	// Чужой субъект не видит ресурсы
	tok2 := f.login(t, "sub-2")
	rec = f.do(t, http.MethodPut, "/api/v1/categories/"+catID, tok2, `{"name":"X","picture":""}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("чужой update: status = %d, ожидается 404", rec.Code)
	}

	// Удаление
	rec = f.do(t, http.MethodDelete, "/api/v1/activities/"+actID, tok, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete activity: status = %d", rec.Code)
	}
	rec = f.do(t, http.MethodDelete, "/api/v1/categories/"+catID, tok, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete category: status = %d", rec.Code)
	}
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	f := newFixture(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/categories"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/catalog/categories"},
		{http.MethodGet, "/api/v1/admin/users"},
	}
	for _, p := range paths {
		rec := f.do(t, p.method, p.path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, ожидается 401", p.method, p.path, rec.Code)
		}
	}
}

func TestAdminRoutes_Authorization(t *testing.T) {
	f := newFixture(t)

	memberTok := f.login(t, "sub-member")

	// member → 403 на всех admin-маршрутах
	rec := f.do(t, http.MethodGet, "/api/v1/admin/users", memberTok, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member admin/users: status = %d, ожидается 403", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/api/v1/admin/categories", memberTok, `{"name":"X","picture":""}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member admin/categories: status = %d, ожидается 403", rec.Code)
	}

	// Повышаем субъекта до admin напрямую в хранилище.
	f.store.mu.Lock()
	f.store.users["sub-admin"] = &model.User{
		Subject: "sub-admin", Role: rbac.RoleAdmin, Status: model.StatusActive,
	}
	f.store.mu.Unlock()
	adminTok := f.login(t, "sub-admin")

	rec = f.do(t, http.MethodGet, "/api/v1/admin/users", adminTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin admin/users: status = %d, тело: %s", rec.Code, rec.Body.String())
	}
}

// Роль, изменённая после выпуска токена, видна admin-маршрутам сразу:
// re-check режим перечитывает таблицу.
func TestAdminRoutes_RecheckPicksUpPromotion(t *testing.T) {
	f := newFixture(t)

	tok := f.login(t, "sub-1")

	rec := f.do(t, http.MethodGet, "/api/v1/admin/users", tok, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("до повышения: status = %d, ожидается 403", rec.Code)
	}

	f.store.mu.Lock()
	f.store.users["sub-1"].Role = rbac.RoleAdmin
	f.store.mu.Unlock()

	// Тот же токен (роль member внутри), но re-check видит admin.
	rec = f.do(t, http.MethodGet, "/api/v1/admin/users", tok, "")
	if rec.Code != http.StatusOK {
		t.Errorf("после повышения: status = %d, ожидается 200", rec.Code)
	}
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t)

	f.store.users["sub-admin"] = &model.User{
		Subject: "sub-admin", Role: rbac.RoleAdmin, Status: model.StatusActive,
	}
	adminTok := f.login(t, "sub-admin")
	f.login(t, "sub-1")

	// Повышение роли
	rec := f.do(t, http.MethodPut, "/api/v1/admin/users/sub-1/role", adminTok, `{"role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update role: status = %d, тело: %s", rec.Code, rec.Body.String())
	}
	if got := decodeField(t, rec, "role"); got != rbac.RoleAdmin {
		t.Errorf("role = %q", got)
	}

	// Некорректная роль
	rec = f.do(t, http.MethodPut, "/api/v1/admin/users/sub-1/role", adminTok, `{"role":"superuser"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid role: status = %d, ожидается 400", rec.Code)
	}

	// Отключение
	rec = f.do(t, http.MethodPut, "/api/v1/admin/users/sub-1/status", adminTok, `{"status":"disabled"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status: status = %d", rec.Code)
	}

	// Отключённый субъект больше не входит.
	rec = f.do(t, http.MethodPost, "/api/v1/auth/login", "valid:sub-1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("login после отключения: status = %d, ожидается 404", rec.Code)
	}

	// Несуществующий subject
	rec = f.do(t, http.MethodPut, "/api/v1/admin/users/missing/role", adminTok, `{"role":"admin"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing subject: status = %d, ожидается 404", rec.Code)
	}
}

func TestCatalogFlow(t *testing.T) {
	f := newFixture(t)

	f.store.users["sub-admin"] = &model.User{
		Subject: "sub-admin", Role: rbac.RoleAdmin, Status: model.StatusActive,
	}
	adminTok := f.login(t, "sub-admin")
	memberTok := f.login(t, "sub-1")

	// Admin наполняет общий каталог.
	rec := f.do(t, http.MethodPost, "/api/v1/admin/categories", adminTok, `{"name":"Общее","picture":""}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create catalog category: status = %d, тело: %s", rec.Code, rec.Body.String())
	}
	catID := decodeField(t, rec, "id")

	rec = f.do(t, http.MethodPost, "/api/v1/admin/activities", adminTok,
		`{"category_id":"`+catID+`","name":"Чтение","picture":""}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create catalog activity: status = %d, тело: %s", rec.Code, rec.Body.String())
	}

	// Любой субъект с сессией читает каталог.
	rec = f.do(t, http.MethodGet, "/api/v1/catalog/categories", memberTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog categories: status = %d", rec.Code)
	}
	var list struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("разбор списка: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Name != "Общее" {
		t.Errorf("items = %+v", list.Items)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/catalog/activities?category_id="+catID, memberTok, "")
	if rec.Code != http.StatusOK {
		t.Errorf("catalog activities: status = %d", rec.Code)
	}

	// Каталог не смешивается с личным пространством.
	rec = f.do(t, http.MethodGet, "/api/v1/categories", memberTok, "")
	var own struct {
		Items []any `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &own); err != nil {
		t.Fatalf("разбор списка: %v", err)
	}
	if len(own.Items) != 0 {
		t.Errorf("личные категории = %+v, ожидается пусто", own.Items)
	}
}

func TestHealthLive(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health/live", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeField(t, rec, "service"); got != "api-module" {
		t.Errorf("service = %q", got)
	}

	// readiness без checkers — fail/503
	rec = f.do(t, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready: status = %d, ожидается 503", rec.Code)
	}
}

func TestValidationErrors(t *testing.T) {
	f := newFixture(t)
	tok := f.login(t, "sub-1")

	// Пустое название
	rec := f.do(t, http.MethodPost, "/api/v1/categories", tok, `{"name":"","picture":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("пустое название: status = %d, ожидается 400", rec.Code)
	}

	// Не-JSON тело
	rec = f.do(t, http.MethodPost, "/api/v1/categories", tok, `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("не-JSON: status = %d, ожидается 400", rec.Code)
	}

	// activities без category_id
	rec = f.do(t, http.MethodGet, "/api/v1/activities", tok, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("без category_id: status = %d, ожидается 400", rec.Code)
	}

	// Некорректный идентификатор в пути
	rec = f.do(t, http.MethodDelete, "/api/v1/categories/not-a-uuid", tok, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("не-UUID: status = %d, ожидается 400", rec.Code)
	}
}
