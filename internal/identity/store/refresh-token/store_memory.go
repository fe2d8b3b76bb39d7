package refreshtoken

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

// InMemoryRefreshTokenStore stores refresh token snapshots in memory for
// tests/dev. Tokens are indexed by ID and by token hash; rotation chains stay
// intact because revoked rows are never deleted.
type InMemoryRefreshTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]models.RefreshTokenSnapshot
	byHash map[string]string
}

var _ store.RefreshTokenStore = (*InMemoryRefreshTokenStore)(nil)

// New constructs an empty in-memory refresh token store.
func New() *InMemoryRefreshTokenStore {
	return &InMemoryRefreshTokenStore{
		tokens: make(map[string]models.RefreshTokenSnapshot),
		byHash: make(map[string]string),
	}
}

func (s *InMemoryRefreshTokenStore) Create(_ context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := token.Snapshot()
	key := snapshot.ID.String()
	if _, ok := s.tokens[key]; ok {
		return fmt.Errorf("refresh token %s already exists: %w", key, sentinel.ErrConflict)
	}
	if _, ok := s.byHash[snapshot.TokenHash]; ok {
		return fmt.Errorf("token hash already stored: %w", sentinel.ErrConflict)
	}

	s.tokens[key] = snapshot
	s.byHash[snapshot.TokenHash] = key
	return nil
}

func (s *InMemoryRefreshTokenStore) FindByID(_ context.Context, id domain.RefreshTokenID) (*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.tokens[id.String()]
	if !ok {
		return nil, fmt.Errorf("refresh token not found: %w", sentinel.ErrNotFound)
	}
	return models.RestoreRefreshToken(snapshot), nil
}

func (s *InMemoryRefreshTokenStore) FindByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byHash[tokenHash]
	if !ok {
		return nil, fmt.Errorf("refresh token not found: %w", sentinel.ErrNotFound)
	}
	return models.RestoreRefreshToken(s.tokens[key]), nil
}

// ListByUser returns every token recorded for the user, newest first.
func (s *InMemoryRefreshTokenStore) ListByUser(_ context.Context, userID domain.UserID) ([]*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.RefreshToken
	for _, snapshot := range s.tokens {
		if snapshot.UserID == userID {
			result = append(result, models.RestoreRefreshToken(snapshot))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt().After(result[j].CreatedAt())
	})
	return result, nil
}

func (s *InMemoryRefreshTokenStore) Update(_ context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := token.Snapshot()
	key := snapshot.ID.String()
	if _, ok := s.tokens[key]; !ok {
		return fmt.Errorf("refresh token not found: %w", sentinel.ErrNotFound)
	}

	s.tokens[key] = snapshot
	return nil
}
