// fakes_test.go — in-memory фейки репозиториев и верификатора для unit-тестов.
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/actiplan/api-module/internal/domain/model"
	"github.com/actiplan/api-module/internal/idp"
	"github.com/actiplan/api-module/internal/repository"
)

// fakeVerifier — CredentialVerifier с фиксированным результатом.
type fakeVerifier struct {
	identity *idp.VerifiedIdentity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*idp.VerifiedIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

// fakeUserRepo — in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User

	// failWith подменяет любую операцию ошибкой.
	failWith error
	// getCalls считает обращения GetBySubject (для проверки кэша).
	getCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) clone(u *model.User) *model.User {
	c := *u
	return &c
}

func (f *fakeUserRepo) Reconcile(_ context.Context, in repository.ReconcileInput) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if u, ok := f.users[in.Subject]; ok {
		u.Email = in.Email
		u.DisplayName = in.DisplayName
		u.UpdatedAt = time.Now()
		return f.clone(u), nil
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
	f.users[in.Subject] = u
	return f.clone(u), nil
}

func (f *fakeUserRepo) GetBySubject(_ context.Context, subject string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[subject]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f.clone(u), nil
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role string, limit, offset int) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var all []*model.User
	for _, u := range f.users {
		if u.Role == role && u.Subject != model.DefaultSubject {
			all = append(all, f.clone(u))
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

func (f *fakeUserRepo) CountByRole(_ context.Context, role string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return 0, f.failWith
	}
	n := 0
	for _, u := range f.users {
		if u.Role == role && u.Subject != model.DefaultSubject {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, subject, role string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[subject]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return f.clone(u), nil
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, subject, status string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[subject]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	return f.clone(u), nil
}

// fakeCategoryRepo — in-memory CategoryRepository.
type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*model.Category{}}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[c.ID]; ok {
		return repository.ErrConflict
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, subject, id string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok || c.Subject != subject {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) ListBySubject(_ context.Context, subject string, limit, offset int) ([]*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*model.Category
	for _, c := range f.categories {
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

func (f *fakeCategoryRepo) Update(_ context.Context, c *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.categories[c.ID]
	if !ok || existing.Subject != c.Subject {
		return repository.ErrNotFound
	}
	existing.Name = c.Name
	existing.Picture = c.Picture
	existing.UpdatedAt = time.Now()
	c.UpdatedAt = existing.UpdatedAt
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, subject, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok || c.Subject != subject {
		return repository.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

// fakeActivityRepo — in-memory ActivityRepository.
type fakeActivityRepo struct {
	mu         sync.Mutex
	activities map[string]*model.Activity
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{activities: map[string]*model.Activity{}}
}

func (f *fakeActivityRepo) Create(_ context.Context, a *model.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.activities[a.ID]; ok {
		return repository.ErrConflict
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	f.activities[a.ID] = &cp
	return nil
}

func (f *fakeActivityRepo) GetByID(_ context.Context, subject, id string) (*model.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.activities[id]
	if !ok || a.Subject != subject {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeActivityRepo) ListByCategory(_ context.Context, subject, categoryID string, limit, offset int) ([]*model.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*model.Activity
	for _, a := range f.activities {
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

func (f *fakeActivityRepo) Update(_ context.Context, a *model.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.activities[a.ID]
	if !ok || existing.Subject != a.Subject {
		return repository.ErrNotFound
	}
	existing.Name = a.Name
	existing.Picture = a.Picture
	existing.UpdatedAt = time.Now()
	a.UpdatedAt = existing.UpdatedAt
	return nil
}

func (f *fakeActivityRepo) Delete(_ context.Context, subject, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.activities[id]
	if !ok || a.Subject != subject {
		return repository.ErrNotFound
	}
	delete(f.activities, id)
	return nil
}
