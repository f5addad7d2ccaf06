package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/domain"
	fs "github.com/cs121-teamhub/teamhub-backend/internal/storage/firestore"
)

// timestampFields are stored as Firestore timestamps and returned as
// domain.TimestampLayout strings.
var timestampFields = []fs.FieldPath{
	{"dates", "from"},
	{"dates", "to"},
	{"times", "from"},
	{"times", "to"},
	{"repeating", "startDate"},
	{"repeating", "endDate"},
}

// FirestoreStore is the Firestore-backed EventStore.
type FirestoreStore struct {
	clients fs.Provider
}

func NewFirestoreStore(clients fs.Provider) *FirestoreStore {
	return &FirestoreStore{clients: clients}
}

func eventsRef(client *firestore.Client, scope Scope) *firestore.CollectionRef {
	return client.Collection(schoolsCollection).Doc(scope.SchoolID).
		Collection(teamsCollection).Doc(scope.TeamID).
		Collection(eventsCollection)
}

func (s *FirestoreStore) List(ctx context.Context, scope Scope, userID string) ([]domain.Document, error) {
	client, release, err := s.clients.Client(ctx, scope.Credential)
	if err != nil {
		return nil, err
	}
	defer release()

	events := eventsRef(client, scope)
	queries := []firestore.Query{
		events.Where(fieldUserIDs, "==", []interface{}{}),
		events.Where(fieldUserIDs, "array-contains", userID),
	}

	out := []domain.Document{}
	seen := map[string]struct{}{}
	for _, q := range queries {
		iter := q.Documents(ctx)
		for {
			snap, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, fmt.Errorf("failed to list events: %w", err)
			}
			if _, dup := seen[snap.Ref.ID]; dup {
				continue
			}
			seen[snap.Ref.ID] = struct{}{}
			out = append(out, fromStore(snap.Ref.ID, snap.Data()))
		}
		iter.Stop()
	}

	return out, nil
}

func (s *FirestoreStore) Create(ctx context.Context, scope Scope, doc domain.Document) (string, error) {
	data, err := toStore(doc)
	if err != nil {
		return "", err
	}

	client, release, err := s.clients.Client(ctx, scope.Credential)
	if err != nil {
		return "", err
	}
	defer release()

	ref, _, err := eventsRef(client, scope).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Update(ctx context.Context, scope Scope, eventID string, doc domain.Document) error {
	data, err := toStore(doc)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(data))
	for k, v := range data {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}

	client, release, err := s.clients.Client(ctx, scope.Credential)
	if err != nil {
		return err
	}
	defer release()

	_, err = eventsRef(client, scope).Doc(eventID).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return domain.NotFound("Event " + eventID + " does not exist")
	}
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, scope Scope, eventID string) error {
	client, release, err := s.clients.Client(ctx, scope.Credential)
	if err != nil {
		return err
	}
	defer release()

	if _, err := eventsRef(client, scope).Doc(eventID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// toStore drops eventId, which is the document name rather than a field,
// and converts timestamp strings to time.Time.
func toStore(doc domain.Document) (map[string]interface{}, error) {
	clean := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == fieldEventID {
			continue
		}
		clean[k] = v
	}

	data, err := fs.ParseTimes(clean, timestampFields, domain.ParseTimestamp)
	if err != nil {
		return nil, domain.BadRequest("Event dates or times are invalid format")
	}
	return data, nil
}

func fromStore(id string, data map[string]interface{}) domain.Document {
	doc := domain.Document(fs.FormatTimes(data, domain.FormatTimestamp).(map[string]interface{}))
	doc[fieldEventID] = id
	return doc
}
