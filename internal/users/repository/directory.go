package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	fs "github.com/cs121-teamhub/teamhub-backend/internal/storage/firestore"
)

var ErrNotFound = errors.New("document not found")

// Directory reads user profiles and team rosters from Firestore.
type Directory struct {
	clients fs.Provider
}

func NewDirectory(clients fs.Provider) *Directory {
	return &Directory{clients: clients}
}

// User returns users/{userID}.
func (d *Directory) User(ctx context.Context, credential, userID string) (map[string]interface{}, error) {
	client, release, err := d.clients.Client(ctx, credential)
	if err != nil {
		return nil, err
	}
	defer release()

	snap, err := client.Collection("users").Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: users/%s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toJSON(snap.Data()), nil
}

// TeamMembers returns every document in schools/{schoolID}/teams/{teamID}/members.
func (d *Directory) TeamMembers(ctx context.Context, credential, schoolID, teamID string) ([]map[string]interface{}, error) {
	client, release, err := d.clients.Client(ctx, credential)
	if err != nil {
		return nil, err
	}
	defer release()

	iter := membersCollection(client, schoolID, teamID).Documents(ctx)
	defer iter.Stop()

	members := []map[string]interface{}{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list team members: %w", err)
		}
		members = append(members, toJSON(snap.Data()))
	}
	return members, nil
}

func membersCollection(client *firestore.Client, schoolID, teamID string) *firestore.CollectionRef {
	return client.Collection("schools").Doc(schoolID).
		Collection("teams").Doc(teamID).
		Collection("members")
}

func toJSON(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return fs.FormatTimes(data, func(t time.Time) string {
		return t.UTC().Format(time.RFC3339Nano)
	}).(map[string]interface{})
}
