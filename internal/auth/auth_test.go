package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalisz/keepsake/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	user := &domain.User{ID: 2, Username: "sam", Name: "Sam"}

	signed, err := tokens.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	identity, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(2), identity.ID)
	assert.Equal(t, "sam", identity.Username)
	assert.Equal(t, "Sam", identity.Name)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	_, err := tokens.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issued, err := NewTokens("secret-a", time.Hour).Issue(&domain.User{ID: 1, Username: "a", Name: "A"})
	require.NoError(t, err)

	_, err = NewTokens("secret-b", time.Hour).Verify(issued)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Minute)
	issued, err := tokens.Issue(&domain.User{ID: 1, Username: "a", Name: "A"})
	require.NoError(t, err)

	_, err = tokens.Verify(issued)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	issued, err := tokens.Issue(&domain.User{ID: 5, Username: "sam", Name: "Sam"})
	require.NoError(t, err)

	var got domain.Identity
	var reached bool
	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		var ok bool
		got, ok = IdentityFromContext(r.Context())
		assert.True(t, ok)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantPass   bool
	}{
		{"valid token", "Bearer " + issued, http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"malformed header", "Token abc", http.StatusUnauthorized, false},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantPass, reached)
			if tc.wantPass {
				assert.Equal(t, int64(5), got.ID)
			}
		})
	}
}
