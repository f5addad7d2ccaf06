package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToolkitServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts:signInWithPassword" || r.URL.Query().Get("key") != "test-key" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch {
		case req.Email == "coach@school.edu" && req.Password == "secret" && req.ReturnSecureToken:
			_ = json.NewEncoder(w).Encode(map[string]string{
				"localId": "uid-1",
				"email":   req.Email,
				"idToken": "id-token-1",
			})
		case req.Email == "broken@school.edu":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"INVALID_PASSWORD"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPasswordAuthenticator_SignIn(t *testing.T) {
	srv := newToolkitServer(t)
	a := NewPasswordAuthenticator(srv.URL+"/v1/", "test-key")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		acct, err := a.SignIn(ctx, "coach@school.edu", "secret")
		require.NoError(t, err)
		assert.Equal(t, &Account{UserID: "uid-1", Email: "coach@school.edu", IDToken: "id-token-1"}, acct)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.SignIn(ctx, "coach@school.edu", "nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})

	t.Run("provider failure", func(t *testing.T) {
		_, err := a.SignIn(ctx, "broken@school.edu", "x")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrInvalidCredentials))
	})

	t.Run("wrong api key", func(t *testing.T) {
		_, err := NewPasswordAuthenticator(srv.URL+"/v1", "other").SignIn(ctx, "coach@school.edu", "secret")
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})
}
