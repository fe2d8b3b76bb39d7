package domain

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "terranova/pkg/domain-errors"
)

func TestParseUserID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid form", func(t *testing.T) {
		_, err := ParseUserID("not-a-ulid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects the zero identifier", func(t *testing.T) {
		_, err := ParseUserID(ulid.ULID{}.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts a generated identifier", func(t *testing.T) {
		want := NewUserID()
		got, err := ParseUserID(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestParseID_RejectsHostileInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"SQL injection attempt", "'; DROP TABLE users;--"},
		{"path traversal", "../../../etc/passwd"},
		{"null byte injection", "01HQXV7J8N4R9T2M5K3P6W8Y0Z\x00"},
		{"oversized input", strings.Repeat("0", 1000)},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserID(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestIDGeneration_MonotonicWithinProcess(t *testing.T) {
	prev := NewRefreshTokenID().String()
	for i := 0; i < 100; i++ {
		next := NewRefreshTokenID().String()
		assert.Less(t, prev, next, "ULIDs must sort by generation order")
		prev = next
	}
}

func TestZeroValueIsInvalidSentinel(t *testing.T) {
	assert.True(t, UserID{}.IsZero())
	assert.True(t, RoleID{}.IsZero())
	assert.True(t, RefreshTokenID{}.IsZero())
	assert.True(t, VerificationID{}.IsZero())
	assert.False(t, NewUserID().IsZero())
}

// Typed IDs are distinct types; cross-assignment fails to compile. The lines
// below document the invariant:
//
//	var _ UserID = NewRoleID()          // compile error
//	var _ RefreshTokenID = NewUserID()  // compile error
func TestTypeDistinction(t *testing.T) {
	u := NewUserID()
	r := NewRoleID()
	assert.NotEqual(t, u.String(), r.String())
}
