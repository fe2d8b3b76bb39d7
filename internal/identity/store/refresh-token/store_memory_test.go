package refreshtoken

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"terranova/internal/identity/models"
	"terranova/pkg/domain"
	"terranova/pkg/platform/sentinel"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newToken(t *testing.T, userID domain.UserID, tokenHash string) *models.RefreshToken {
	t.Helper()
	token, err := models.NewRefreshToken(
		domain.NewRefreshTokenID(), userID,
		tokenHash, "jwt-"+tokenHash,
		testNow.AddDate(0, 0, 9), testNow,
		"Mozilla/5.0 (X11; Linux x86_64)", "127.0.0.1",
	)
	require.NoError(t, err)
	return token
}

type InMemoryRefreshTokenStoreSuite struct {
	suite.Suite
	store *InMemoryRefreshTokenStore
}

func (s *InMemoryRefreshTokenStoreSuite) SetupTest() {
	s.store = New()
}

func (s *InMemoryRefreshTokenStoreSuite) TestCreateAndFind() {
	token := newToken(s.T(), domain.NewUserID(), "hash-1")
	require.NoError(s.T(), s.store.Create(context.Background(), token))

	found, err := s.store.FindByID(context.Background(), token.ID())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), token.TokenHash(), found.TokenHash())

	found, err = s.store.FindByTokenHash(context.Background(), "hash-1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), token.ID(), found.ID())
}

func (s *InMemoryRefreshTokenStoreSuite) TestFindNotFound() {
	_, err := s.store.FindByID(context.Background(), domain.NewRefreshTokenID())
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)

	_, err = s.store.FindByTokenHash(context.Background(), "missing")
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryRefreshTokenStoreSuite) TestDuplicateHashConflicts() {
	userID := domain.NewUserID()
	require.NoError(s.T(), s.store.Create(context.Background(), newToken(s.T(), userID, "hash-1")))

	err := s.store.Create(context.Background(), newToken(s.T(), userID, "hash-1"))
	assert.ErrorIs(s.T(), err, sentinel.ErrConflict)
}

func (s *InMemoryRefreshTokenStoreSuite) TestListByUserNewestFirst() {
	userID := domain.NewUserID()
	older, err := models.NewRefreshToken(
		domain.NewRefreshTokenID(), userID, "hash-old", "jwt-old",
		testNow.AddDate(0, 0, 9), testNow, "ua", "127.0.0.1",
	)
	require.NoError(s.T(), err)
	newer, err := models.NewRefreshToken(
		domain.NewRefreshTokenID(), userID, "hash-new", "jwt-new",
		testNow.AddDate(0, 0, 9), testNow.Add(time.Hour), "ua", "127.0.0.1",
	)
	require.NoError(s.T(), err)
	foreign := newToken(s.T(), domain.NewUserID(), "hash-foreign")

	require.NoError(s.T(), s.store.Create(context.Background(), older))
	require.NoError(s.T(), s.store.Create(context.Background(), newer))
	require.NoError(s.T(), s.store.Create(context.Background(), foreign))

	tokens, err := s.store.ListByUser(context.Background(), userID)
	require.NoError(s.T(), err)
	require.Len(s.T(), tokens, 2)
	assert.Equal(s.T(), newer.ID(), tokens[0].ID())
	assert.Equal(s.T(), older.ID(), tokens[1].ID())
}

func (s *InMemoryRefreshTokenStoreSuite) TestUpdatePersistsRevocation() {
	token := newToken(s.T(), domain.NewUserID(), "hash-1")
	require.NoError(s.T(), s.store.Create(context.Background(), token))

	successor := domain.NewRefreshTokenID()
	require.NoError(s.T(), token.RevokeByRotation(testNow.Add(time.Hour), successor))
	require.NoError(s.T(), s.store.Update(context.Background(), token))

	found, err := s.store.FindByID(context.Background(), token.ID())
	require.NoError(s.T(), err)
	assert.True(s.T(), found.IsRevoked())
	require.NotNil(s.T(), found.ReplacedByTokenID())
	assert.Equal(s.T(), successor, *found.ReplacedByTokenID())
}

func (s *InMemoryRefreshTokenStoreSuite) TestUpdateUnknownTokenFails() {
	err := s.store.Update(context.Background(), newToken(s.T(), domain.NewUserID(), "hash-1"))
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func TestInMemoryRefreshTokenStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryRefreshTokenStoreSuite))
}
