package verification

import (
	"context"
	"fmt"
	"sync"

	"terranova/internal/identity/models"
	"terranova/internal/identity/store"
	"terranova/pkg/domain"
	"terranova/pkg/platform/sentinel"
)

// InMemoryVerificationStore stores verification snapshots in memory for
// tests/dev.
type InMemoryVerificationStore struct {
	mu            sync.RWMutex
	verifications map[string]models.UserVerificationSnapshot
}

var _ store.VerificationStore = (*InMemoryVerificationStore)(nil)

// New constructs an empty in-memory verification store.
func New() *InMemoryVerificationStore {
	return &InMemoryVerificationStore{
		verifications: make(map[string]models.UserVerificationSnapshot),
	}
}

func (s *InMemoryVerificationStore) Create(_ context.Context, verification *models.UserVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := verification.Snapshot()
	key := snapshot.ID.String()
	if _, ok := s.verifications[key]; ok {
		return fmt.Errorf("verification %s already exists: %w", key, sentinel.ErrConflict)
	}

	s.verifications[key] = snapshot
	return nil
}

func (s *InMemoryVerificationStore) FindByID(_ context.Context, id domain.VerificationID) (*models.UserVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.verifications[id.String()]
	if !ok {
		return nil, fmt.Errorf("verification not found: %w", sentinel.ErrNotFound)
	}
	return models.RestoreUserVerification(snapshot), nil
}

// FindPendingByUserAndPurpose returns the newest unconsumed verification for
// the given user and purpose.
func (s *InMemoryVerificationStore) FindPendingByUserAndPurpose(_ context.Context, userID domain.UserID, purpose string) (*models.UserVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *models.UserVerificationSnapshot
	for _, snapshot := range s.verifications {
		if snapshot.UserID != userID || snapshot.Purpose != purpose {
			continue
		}
		if snapshot.ConsumedAt != nil {
			continue
		}
		candidate := snapshot
		if best == nil || candidate.CreatedAt.After(best.CreatedAt) {
			best = &candidate
		}
	}
	if best == nil {
		return nil, fmt.Errorf("pending verification not found: %w", sentinel.ErrNotFound)
	}
	return models.RestoreUserVerification(*best), nil
}

func (s *InMemoryVerificationStore) Update(_ context.Context, verification *models.UserVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := verification.Snapshot()
	key := snapshot.ID.String()
	if _, ok := s.verifications[key]; !ok {
		return fmt.Errorf("verification not found: %w", sentinel.ErrNotFound)
	}

	s.verifications[key] = snapshot
	return nil
}

func (s *InMemoryVerificationStore) Delete(_ context.Context, id domain.VerificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := id.String()
	if _, ok := s.verifications[key]; !ok {
		return fmt.Errorf("verification not found: %w", sentinel.ErrNotFound)
	}
	delete(s.verifications, key)
	return nil
}
