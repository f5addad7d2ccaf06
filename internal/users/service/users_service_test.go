package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs121-teamhub/teamhub-backend/internal/users/identity"
	"github.com/cs121-teamhub/teamhub-backend/internal/users/session"
)

type fakeAuth struct{}

func (fakeAuth) SignIn(_ context.Context, email, password string) (*identity.Account, error) {
	switch {
	case email == "coach@school.edu" && password == "secret":
		return &identity.Account{UserID: "u1", Email: email, IDToken: "id-u1"}, nil
	case email == "down@school.edu":
		return nil, errors.New("identity toolkit returned status 503")
	}
	return nil, fmt.Errorf("%w: status 400", identity.ErrInvalidCredentials)
}

type fakeVerifier struct{ uid string }

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if f.uid == "" {
		return nil, errors.New("token expired")
	}
	return &auth.Token{UID: f.uid}, nil
}

type fakeDirectory struct {
	users   map[string]map[string]interface{}
	members map[string][]map[string]interface{}
	calls   []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users: map[string]map[string]interface{}{
			"u1": {
				"name":   "Alex",
				"school": map[string]interface{}{"school_id": "s1"},
				"team":   map[string]interface{}{"team_id": "t1"},
			},
			"u2": {"name": "No School"},
		},
		members: map[string][]map[string]interface{}{
			"s1/t1":      {{"name": "Alex"}, {"name": "Sam"}},
			"default/t1": {{"name": "Fallback"}},
		},
	}
}

func (f *fakeDirectory) User(_ context.Context, credential, userID string) (map[string]interface{}, error) {
	f.calls = append(f.calls, "user:"+credential)
	u, ok := f.users[userID]
	if !ok {
		return nil, errors.New("document not found")
	}
	out := make(map[string]interface{}, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out, nil
}

func (f *fakeDirectory) TeamMembers(_ context.Context, credential, schoolID, teamID string) ([]map[string]interface{}, error) {
	f.calls = append(f.calls, "members:"+credential)
	if teamID == "forbidden" {
		return nil, errors.New("permission denied")
	}
	m, ok := f.members[schoolID+"/"+teamID]
	if !ok {
		return []map[string]interface{}{}, nil
	}
	return m, nil
}

func newService(verifier TokenVerifier) (*UsersService, *fakeDirectory, session.Store) {
	dir := newFakeDirectory()
	store := session.NewTable()
	return NewUsersService(store, fakeAuth{}, verifier, dir, "default"), dir, store
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success opens a session", func(t *testing.T) {
		svc, _, store := newService(nil)
		token, err := svc.Login(ctx, "coach@school.edu", "secret")
		require.NoError(t, err)

		sess, err := store.Get(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "u1", sess.UserID)
		assert.Equal(t, "id-u1", sess.Credential)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _ := newService(nil)
		_, err := svc.Login(ctx, "", "secret")
		assert.True(t, errors.Is(err, ErrUnauthorized))
		_, err = svc.Login(ctx, "coach@school.edu", "")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("bad password", func(t *testing.T) {
		svc, _, store := newService(nil)
		_, err := svc.Login(ctx, "coach@school.edu", "wrong")
		assert.True(t, errors.Is(err, ErrUnauthorized))
		n, _ := store.Count(ctx)
		assert.Zero(t, n)
	})

	t.Run("provider down", func(t *testing.T) {
		svc, _, _ := newService(nil)
		_, err := svc.Login(ctx, "down@school.edu", "x")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("verified token", func(t *testing.T) {
		svc, _, _ := newService(fakeVerifier{uid: "u1"})
		_, err := svc.Login(ctx, "coach@school.edu", "secret")
		assert.NoError(t, err)
	})

	t.Run("verification fails", func(t *testing.T) {
		svc, _, _ := newService(fakeVerifier{})
		_, err := svc.Login(ctx, "coach@school.edu", "secret")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("token for another user", func(t *testing.T) {
		svc, _, _ := newService(fakeVerifier{uid: "someone-else"})
		_, err := svc.Login(ctx, "coach@school.edu", "secret")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})
}

func TestSessionLookups(t *testing.T) {
	ctx := context.Background()
	svc, dir, _ := newService(nil)

	token, err := svc.Login(ctx, "coach@school.edu", "secret")
	require.NoError(t, err)

	t.Run("check token", func(t *testing.T) {
		cred, err := svc.CheckToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "id-u1", cred)

		_, err = svc.CheckToken(ctx, "unknown")
		assert.True(t, errors.Is(err, ErrUnauthorized))
		_, err = svc.CheckToken(ctx, "")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("current user", func(t *testing.T) {
		user, err := svc.CurrentUser(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "Alex", user["name"])
		assert.Equal(t, "u1", user["userId"])
		assert.Equal(t, "s1", user["schoolId"])
		assert.Equal(t, "t1", user["teamId"])
		assert.Contains(t, dir.calls, "user:id-u1", "directory is read with the session credential")
	})

	t.Run("team members", func(t *testing.T) {
		members, err := svc.TeamMembers(ctx, "t1", token)
		require.NoError(t, err)
		assert.Len(t, members, 2)

		members, err = svc.TeamMembers(ctx, "empty", token)
		require.NoError(t, err)
		assert.NotNil(t, members)
		assert.Empty(t, members)

		_, err = svc.TeamMembers(ctx, "forbidden", token)
		assert.True(t, errors.Is(err, ErrUnauthorized))

		_, err = svc.TeamMembers(ctx, "t1", "unknown")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("logout", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, token))
		require.NoError(t, svc.Logout(ctx, token))
		_, err := svc.CheckToken(ctx, token)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})
}

func TestTeamMembers_FallsBackToConfiguredSchool(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newService(nil)

	sess, err := store.Add(ctx, "u2", "id-u2")
	require.NoError(t, err)

	members, err := svc.TeamMembers(ctx, "t1", sess.UserToken)
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{{"name": "Fallback"}}, members)

	user, err := svc.CurrentUser(ctx, sess.UserToken)
	require.NoError(t, err)
	_, hasSchool := user["schoolId"]
	assert.False(t, hasSchool)
}

func TestCurrentUser_MissingDocument(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newService(nil)

	sess, err := store.Add(ctx, "ghost", "id-ghost")
	require.NoError(t, err)

	_, err = svc.CurrentUser(ctx, sess.UserToken)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}
