package role

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"terranova/internal/identity/models"
	"terranova/internal/identity/store"
	"terranova/pkg/domain"
	"terranova/pkg/platform/sentinel"
)

// InMemoryRoleStore stores roles and user-role assignments in memory for
// tests/dev. Role names are unique; assignments are idempotent keys of
// (user, role).
type InMemoryRoleStore struct {
	mu          sync.RWMutex
	roles       map[string]models.RoleSnapshot
	byName      map[string]string
	assignments map[string]map[string]struct{}
}

var _ store.RoleStore = (*InMemoryRoleStore)(nil)

// New constructs an empty in-memory role store.
func New() *InMemoryRoleStore {
	return &InMemoryRoleStore{
		roles:       make(map[string]models.RoleSnapshot),
		byName:      make(map[string]string),
		assignments: make(map[string]map[string]struct{}),
	}
}

func (s *InMemoryRoleStore) Create(_ context.Context, role *models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := role.Snapshot()
	key := snapshot.ID.String()
	if _, ok := s.roles[key]; ok {
		return fmt.Errorf("role %s already exists: %w", key, sentinel.ErrConflict)
	}
	if _, ok := s.byName[snapshot.Name]; ok {
		return fmt.Errorf("role name %q already taken: %w", snapshot.Name, sentinel.ErrConflict)
	}

	s.roles[key] = snapshot
	s.byName[snapshot.Name] = key
	return nil
}

func (s *InMemoryRoleStore) FindByID(_ context.Context, id domain.RoleID) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.roles[id.String()]
	if !ok {
		return nil, fmt.Errorf("role not found: %w", sentinel.ErrNotFound)
	}
	return models.RestoreRole(snapshot), nil
}

func (s *InMemoryRoleStore) FindByName(_ context.Context, name string) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("role not found: %w", sentinel.ErrNotFound)
	}
	return models.RestoreRole(s.roles[key]), nil
}

func (s *InMemoryRoleStore) Update(_ context.Context, role *models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := role.Snapshot()
	key := snapshot.ID.String()
	prev, ok := s.roles[key]
	if !ok {
		return fmt.Errorf("role not found: %w", sentinel.ErrNotFound)
	}

	if prev.Name != snapshot.Name {
		if owner, taken := s.byName[snapshot.Name]; taken && owner != key {
			return fmt.Errorf("role name %q already taken: %w", snapshot.Name, sentinel.ErrConflict)
		}
		delete(s.byName, prev.Name)
		s.byName[snapshot.Name] = key
	}

	s.roles[key] = snapshot
	return nil
}

func (s *InMemoryRoleStore) Assign(_ context.Context, userRole *models.UserRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roleKey := userRole.RoleID().String()
	if _, ok := s.roles[roleKey]; !ok {
		return fmt.Errorf("role not found: %w", sentinel.ErrNotFound)
	}

	userKey := userRole.UserID().String()
	if s.assignments[userKey] == nil {
		s.assignments[userKey] = make(map[string]struct{})
	}
	if _, ok := s.assignments[userKey][roleKey]; ok {
		return fmt.Errorf("role already assigned: %w", sentinel.ErrConflict)
	}

	s.assignments[userKey][roleKey] = struct{}{}
	return nil
}

// ListByUser returns the user's roles ordered by name.
func (s *InMemoryRoleStore) ListByUser(_ context.Context, userID domain.UserID) ([]*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Role
	for roleKey := range s.assignments[userID.String()] {
		if snapshot, ok := s.roles[roleKey]; ok {
			result = append(result, models.RestoreRole(snapshot))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result, nil
}
