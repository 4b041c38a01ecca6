package repository

import (
	"context"
	"sort"
	"time"

	"github.com/stemsi/campus-portal/internal/model"
)

// UserRepository handles account data access.
type UserRepository struct {
	s *Store
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

// Create inserts a new account and assigns its ID.
// Returns ErrDuplicate when the email is already registered.
func (r *UserRepository) Create(_ context.Context, a *model.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := emailKey(a.Email)
	if _, taken := r.s.emails[key]; taken {
		return ErrDuplicate
	}

	r.s.lastAccount++
	now := time.Now()
	a.ID = r.s.lastAccount
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	r.s.accounts[a.ID] = &stored
	r.s.emails[key] = a.ID
	return nil
}

// GetByID retrieves an account by ID.
func (r *UserRepository) GetByID(_ context.Context, id int) (*model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *a
	return &out, nil
}

// GetByEmail retrieves an account by its unique email.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[emailKey(email)]
	if !ok {
		return nil, ErrNotFound
	}
	out := *r.s.accounts[id]
	return &out, nil
}

// List returns every user ordered by ID. A non-empty role filters the result.
func (r *UserRepository) List(_ context.Context, role model.Role) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]model.User, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		if role != "" && a.Role != role {
			continue
		}
		users = append(users, a.User)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// UpdateRole changes an account's role and returns the updated user.
func (r *UserRepository) UpdateRole(_ context.Context, id int, role model.Role) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Role = role
	a.UpdatedAt = time.Now()
	out := a.User
	return &out, nil
}

// Count returns the number of accounts.
func (r *UserRepository) Count(_ context.Context) int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.accounts)
}
