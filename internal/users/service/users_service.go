package service

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"github.com/cs121-teamhub/teamhub-backend/internal/logging"
	"github.com/cs121-teamhub/teamhub-backend/internal/users/identity"
	"github.com/cs121-teamhub/teamhub-backend/internal/users/session"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*identity.Account, error)
}

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Directory interface {
	User(ctx context.Context, credential, userID string) (map[string]interface{}, error)
	TeamMembers(ctx context.Context, credential, schoolID, teamID string) ([]map[string]interface{}, error)
}

// UsersService implements login sessions and the user lookups built on them.
type UsersService struct {
	sessions  session.Store
	auth      Authenticator
	verifier  TokenVerifier
	directory Directory
	schoolID  string
}

// NewUsersService creates the service. verifier may be nil to skip ID token
// verification. schoolID is used for team lookups when the user document
// names no school.
func NewUsersService(sessions session.Store, auth Authenticator, verifier TokenVerifier, directory Directory, schoolID string) *UsersService {
	return &UsersService{
		sessions:  sessions,
		auth:      auth,
		verifier:  verifier,
		directory: directory,
		schoolID:  schoolID,
	}
}

// Login signs the user in and opens a session, returning its user token.
func (s *UsersService) Login(ctx context.Context, email, password string) (string, error) {
	log := logging.New(ctx)

	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrUnauthorized)
	}

	acct, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			log.Warn("login", "sign-in rejected")
		} else {
			log.Error("login", err)
		}
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if s.verifier != nil {
		token, err := s.verifier.VerifyIDToken(ctx, acct.IDToken)
		if err != nil {
			log.Error("login", err)
			return "", fmt.Errorf("%w: id token verification failed", ErrUnauthorized)
		}
		if token.UID != acct.UserID {
			return "", fmt.Errorf("%w: id token belongs to another user", ErrUnauthorized)
		}
	}

	sess, err := s.sessions.Add(ctx, acct.UserID, acct.IDToken)
	if err != nil {
		return "", err
	}

	log.Infof("login", "user_id=%s", acct.UserID)
	return sess.UserToken, nil
}

// Logout removes the session. Unknown tokens are ignored.
func (s *UsersService) Logout(ctx context.Context, userToken string) error {
	return s.sessions.Remove(ctx, userToken)
}

// CheckToken returns the Firebase ID token held by the session.
func (s *UsersService) CheckToken(ctx context.Context, userToken string) (string, error) {
	sess, err := s.session(ctx, userToken)
	if err != nil {
		return "", err
	}
	return sess.Credential, nil
}

// CurrentUser returns the session user's document with top-level userId,
// schoolId and teamId added.
func (s *UsersService) CurrentUser(ctx context.Context, userToken string) (map[string]interface{}, error) {
	sess, err := s.session(ctx, userToken)
	if err != nil {
		return nil, err
	}

	user, err := s.directory.User(ctx, sess.Credential, sess.UserID)
	if err != nil {
		logging.New(ctx).Error("current_user", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	setIfAbsent(user, "userId", sess.UserID)
	setIfAbsent(user, "schoolId", nestedID(user, "school", "school_id"))
	setIfAbsent(user, "teamId", nestedID(user, "team", "team_id"))
	return user, nil
}

// TeamMembers lists the members of teamID in the session user's school.
func (s *UsersService) TeamMembers(ctx context.Context, teamID, userToken string) ([]map[string]interface{}, error) {
	log := logging.New(ctx)

	sess, err := s.session(ctx, userToken)
	if err != nil {
		return nil, err
	}
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	schoolID := s.schoolID
	if user, err := s.directory.User(ctx, sess.Credential, sess.UserID); err == nil {
		if id, _ := user["schoolId"].(string); id != "" {
			schoolID = id
		} else if id := nestedID(user, "school", "school_id"); id != "" {
			schoolID = id
		}
	} else {
		log.Warnf("team_members", "user lookup failed, using configured school: %v", err)
	}
	if schoolID == "" {
		return nil, fmt.Errorf("%w: no school for user", ErrUnauthorized)
	}

	members, err := s.directory.TeamMembers(ctx, sess.Credential, schoolID, teamID)
	if err != nil {
		log.Error("team_members", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return members, nil
}

func (s *UsersService) session(ctx context.Context, userToken string) (*session.Session, error) {
	if userToken == "" {
		return nil, fmt.Errorf("%w: user token is required", ErrUnauthorized)
	}
	sess, err := s.sessions.Get(ctx, userToken)
	if errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user token", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func nestedID(doc map[string]interface{}, field, key string) string {
	m, ok := doc[field].(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := m[key].(string)
	return id
}

func setIfAbsent(doc map[string]interface{}, key, value string) {
	if value == "" {
		return
	}
	if existing, _ := doc[key].(string); existing != "" {
		return
	}
	doc[key] = value
}
