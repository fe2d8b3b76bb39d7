package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"terranova/internal/identity/models"
	"terranova/internal/identity/values"
	"terranova/pkg/domain"
	"terranova/pkg/platform/sentinel"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newVerification(t *testing.T, userID domain.UserID, purpose string, createdAt time.Time) *models.UserVerification {
	t.Helper()
	code, err := values.CodeFrom("483921")
	require.NoError(t, err)
	verification, err := models.NewUserVerification(
		domain.NewVerificationID(), userID, purpose, code,
		createdAt.Add(15*time.Minute), createdAt,
	)
	require.NoError(t, err)
	return verification
}

type InMemoryVerificationStoreSuite struct {
	suite.Suite
	store *InMemoryVerificationStore
}

func (s *InMemoryVerificationStoreSuite) SetupTest() {
	s.store = New()
}

func (s *InMemoryVerificationStoreSuite) TestCreateAndFind() {
	verification := newVerification(s.T(), domain.NewUserID(), "email_verify", testNow)
	require.NoError(s.T(), s.store.Create(context.Background(), verification))

	found, err := s.store.FindByID(context.Background(), verification.ID())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), verification.Purpose(), found.Purpose())
}

func (s *InMemoryVerificationStoreSuite) TestFindNotFound() {
	_, err := s.store.FindByID(context.Background(), domain.NewVerificationID())
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryVerificationStoreSuite) TestFindPendingPicksNewestUnconsumed() {
	userID := domain.NewUserID()
	older := newVerification(s.T(), userID, "email_verify", testNow)
	newer := newVerification(s.T(), userID, "email_verify", testNow.Add(time.Minute))
	otherPurpose := newVerification(s.T(), userID, "phone_verify", testNow.Add(2*time.Minute))

	require.NoError(s.T(), s.store.Create(context.Background(), older))
	require.NoError(s.T(), s.store.Create(context.Background(), newer))
	require.NoError(s.T(), s.store.Create(context.Background(), otherPurpose))

	pending, err := s.store.FindPendingByUserAndPurpose(context.Background(), userID, "email_verify")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), newer.ID(), pending.ID())
}

func (s *InMemoryVerificationStoreSuite) TestConsumedVerificationIsNotPending() {
	userID := domain.NewUserID()
	verification := newVerification(s.T(), userID, "email_verify", testNow)
	require.NoError(s.T(), verification.Consume(testNow.Add(time.Minute)))
	require.NoError(s.T(), s.store.Create(context.Background(), verification))

	_, err := s.store.FindPendingByUserAndPurpose(context.Background(), userID, "email_verify")
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryVerificationStoreSuite) TestUpdatePersistsConsumption() {
	verification := newVerification(s.T(), domain.NewUserID(), "email_verify", testNow)
	require.NoError(s.T(), s.store.Create(context.Background(), verification))

	require.NoError(s.T(), verification.Consume(testNow.Add(time.Minute)))
	require.NoError(s.T(), s.store.Update(context.Background(), verification))

	found, err := s.store.FindByID(context.Background(), verification.ID())
	require.NoError(s.T(), err)
	assert.True(s.T(), found.IsConsumed())
}

func (s *InMemoryVerificationStoreSuite) TestDelete() {
	verification := newVerification(s.T(), domain.NewUserID(), "email_verify", testNow)
	require.NoError(s.T(), s.store.Create(context.Background(), verification))

	require.NoError(s.T(), s.store.Delete(context.Background(), verification.ID()))

	_, err := s.store.FindByID(context.Background(), verification.ID())
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)

	err = s.store.Delete(context.Background(), verification.ID())
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func TestInMemoryVerificationStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryVerificationStoreSuite))
}
