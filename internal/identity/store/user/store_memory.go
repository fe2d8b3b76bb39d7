package user

import (
	"context"
	"fmt"
	"sync"

	"terranova/internal/identity/models"
	"terranova/internal/identity/store"
	"terranova/internal/identity/values"
	"terranova/pkg/domain"
	"terranova/pkg/platform/sentinel"
)

// InMemoryUserStore stores user snapshots in memory for tests/dev. Snapshots
// are copied on every read and write so callers never share entity state with
// the store.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[string]models.UserSnapshot
	byEmail map[string]string
}

var _ store.UserStore = (*InMemoryUserStore)(nil)

// New constructs an empty in-memory user store.
func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[string]models.UserSnapshot),
		byEmail: make(map[string]string),
	}
}

func (s *InMemoryUserStore) Register(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := user.Snapshot()
	key := snapshot.ID.String()
	if _, ok := s.users[key]; ok {
		return fmt.Errorf("user %s already exists: %w", key, sentinel.ErrConflict)
	}
	emailKey := snapshot.Email.String()
	if _, ok := s.byEmail[emailKey]; ok {
		return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
	}

	s.users[key] = snapshot
	s.byEmail[emailKey] = key
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id domain.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.users[id.String()]
	if !ok || snapshot.IsDeleted {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	return models.RestoreUser(snapshot), nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email values.Email) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byEmail[email.String()]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	snapshot := s.users[key]
	if snapshot.IsDeleted {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	return models.RestoreUser(snapshot), nil
}

func (s *InMemoryUserStore) ExistsByEmail(_ context.Context, email values.Email) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byEmail[email.String()]
	if !ok {
		return false, nil
	}
	return !s.users[key].IsDeleted, nil
}

func (s *InMemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := user.Snapshot()
	key := snapshot.ID.String()
	prev, ok := s.users[key]
	if !ok {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}

	prevEmail := prev.Email.String()
	nextEmail := snapshot.Email.String()
	if prevEmail != nextEmail {
		if owner, taken := s.byEmail[nextEmail]; taken && owner != key {
			return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
		}
		delete(s.byEmail, prevEmail)
		s.byEmail[nextEmail] = key
	}

	s.users[key] = snapshot
	return nil
}

// SoftDelete persists the deleted state. The row stays for history, but the
// email index entry is released so the address can be registered again,
// matching the partial unique index of the postgres store.
func (s *InMemoryUserStore) SoftDelete(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := user.Snapshot()
	key := snapshot.ID.String()
	if _, ok := s.users[key]; !ok {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}

	if owner, ok := s.byEmail[snapshot.Email.String()]; ok && owner == key {
		delete(s.byEmail, snapshot.Email.String())
	}
	s.users[key] = snapshot
	return nil
}
