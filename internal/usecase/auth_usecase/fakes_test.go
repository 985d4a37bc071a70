package auth

import (
	"context"
	"sync"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/repository"
)

// メモリ上の UserRepository（ログイン状態の遷移を確認する用）
type memUserRepo struct {
	mu        sync.Mutex
	byID      map[int64]*model.User
	nextID    int64
	createErr error
	saves     int
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	r := &memUserRepo{byID: map[int64]*model.User{}, nextID: 1}
	for _, u := range users {
		cp := *u
		r.byID[u.ID] = &cp
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return repository.ErrConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) UpdateLoginState(ctx context.Context, userID int64, failedAttempts int, lockedUntil *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.FailedLoginAttempts = failedAttempts
	if lockedUntil != nil {
		t := *lockedUntil
		u.LockedUntil = &t
	} else {
		u.LockedUntil = nil
	}
	r.saves++
	return nil
}

func (r *memUserRepo) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *memUserRepo) get(id int64) model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.byID[id]
}

var _ repository.UserRepository = (*memUserRepo)(nil)

// 平文比較の verifier（bcrypt を回さない）
type plainVerifier struct{ calls int }

func (v *plainVerifier) Verify(plain string, hashed string) bool {
	v.calls++
	return "hash:"+plain == hashed
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type stubIssuer struct {
	calls int
}

func (s *stubIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	s.calls++
	return "jwt-token", now.Add(24 * time.Hour), nil
}

type auditorSpy struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (a *auditorSpy) Record(ctx context.Context, entry model.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}
