package repository

import (
	"context"

	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/domain"
)

// Scope identifies the team event collection a call operates on and the
// credential it is authorised with.
type Scope struct {
	Credential string
	SchoolID   string
	TeamID     string
}

// EventStore persists event documents under schools/{school}/teams/{team}/events.
type EventStore interface {
	// List returns events visible to userID: those with an empty userIds
	// list plus those whose userIds contains userID. Each document carries
	// its eventId.
	List(ctx context.Context, scope Scope, userID string) ([]domain.Document, error)
	// Create inserts doc and returns the store-assigned id.
	Create(ctx context.Context, scope Scope, doc domain.Document) (string, error)
	// Update overwrites only the top-level fields present in doc. A missing
	// event is a NotFound error.
	Update(ctx context.Context, scope Scope, eventID string, doc domain.Document) error
	// Delete removes the event. Deleting a missing event succeeds.
	Delete(ctx context.Context, scope Scope, eventID string) error
}

const (
	schoolsCollection = "schools"
	teamsCollection   = "teams"
	eventsCollection  = "events"

	fieldEventID = "eventId"
	fieldUserIDs = "userIds"
)
