package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/domain"
	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/identity"
	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/repository"
)

// IdentityResolver is the users service as seen by the calendar.
type IdentityResolver interface {
	CheckToken(ctx context.Context, userToken string) (string, error)
	CurrentUser(ctx context.Context, userToken string) (*identity.User, error)
}

// RequestContext is an authenticated, tenant-scoped caller.
type RequestContext struct {
	userToken  string
	credential string
	userID     string
	schoolID   string
	teamID     string
}

// NewRequestContext reads userToken from doc and resolves it to a storage
// credential (Unauthorized on failure) and then to a school and team
// (BadRequest on failure). Transport failures are returned unclassified.
func NewRequestContext(ctx context.Context, resolver IdentityResolver, doc domain.Document) (*RequestContext, error) {
	token, err := domain.CheckField[string](doc, "userToken", "User token", false)
	if err != nil {
		return nil, err
	}

	cred, err := resolver.CheckToken(ctx, token)
	if errors.Is(err, identity.ErrRejected) || (err == nil && cred == "") {
		return nil, domain.Unauthorized("Invalid user token")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check user token: %w", err)
	}

	user, err := resolver.CurrentUser(ctx, token)
	if errors.Is(err, identity.ErrRejected) {
		return nil, domain.BadRequest("Could not find school and team for user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if user.SchoolID == "" || user.TeamID == "" {
		return nil, domain.BadRequest("Could not find school and team for user")
	}

	userID := user.UserID
	if userID == "" {
		userID = token
	}

	return &RequestContext{
		userToken:  token,
		credential: cred,
		userID:     userID,
		schoolID:   user.SchoolID,
		teamID:     user.TeamID,
	}, nil
}

func (r *RequestContext) UserToken() string { return r.userToken }
func (r *RequestContext) UserID() string    { return r.userID }
func (r *RequestContext) SchoolID() string  { return r.schoolID }
func (r *RequestContext) TeamID() string    { return r.teamID }

func (r *RequestContext) Scope() repository.Scope {
	return repository.Scope{
		Credential: r.credential,
		SchoolID:   r.schoolID,
		TeamID:     r.teamID,
	}
}
