package repository

import (
	"context"
	"sync"

	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/domain"
	"github.com/google/uuid"
)

// MemoryStore is an in-process EventStore for local runs and tests. The
// credential is not checked.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string]map[string]domain.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string]map[string]domain.Document)}
}

func teamKey(scope Scope) string {
	return schoolsCollection + "/" + scope.SchoolID + "/" + teamsCollection + "/" + scope.TeamID
}

func (s *MemoryStore) List(_ context.Context, scope Scope, userID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Document{}
	for id, doc := range s.events[teamKey(scope)] {
		if !visibleTo(doc, userID) {
			continue
		}
		c := doc.Clone()
		c[fieldEventID] = id
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, scope Scope, doc domain.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := teamKey(scope)
	if s.events[key] == nil {
		s.events[key] = make(map[string]domain.Document)
	}

	id := uuid.New().String()
	c := doc.Clone()
	delete(c, fieldEventID)
	s.events[key][id] = c
	return id, nil
}

func (s *MemoryStore) Update(_ context.Context, scope Scope, eventID string, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.events[teamKey(scope)][eventID]
	if !ok {
		return domain.NotFound("Event " + eventID + " does not exist")
	}
	for k, v := range doc.Clone() {
		if k == fieldEventID {
			continue
		}
		stored[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, scope Scope, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.events[teamKey(scope)], eventID)
	return nil
}

// visibleTo mirrors the two Firestore list queries: an event without a
// userIds list matches neither.
func visibleTo(doc domain.Document, userID string) bool {
	ids, ok := doc[fieldUserIDs].([]interface{})
	if !ok {
		return false
	}
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}
