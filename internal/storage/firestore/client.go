package firestore

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// ReleaseFunc gives back a client obtained from a Provider.
type ReleaseFunc func()

// Provider hands out Firestore clients authorised for one caller.
type Provider interface {
	Client(ctx context.Context, credential string) (*firestore.Client, ReleaseFunc, error)
}

// UserClientFactory opens a client per call using the caller's Firebase ID
// token as the bearer token, so Firestore security rules apply to the caller.
type UserClientFactory struct {
	projectID string
	opts      []option.ClientOption
}

func NewUserClientFactory(projectID string, opts ...option.ClientOption) *UserClientFactory {
	return &UserClientFactory{projectID: projectID, opts: opts}
}

func (f *UserClientFactory) Client(ctx context.Context, credential string) (*firestore.Client, ReleaseFunc, error) {
	if credential == "" {
		return nil, nil, fmt.Errorf("firestore: empty credential")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: credential,
		TokenType:   "Bearer",
	})
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, f.opts...)

	client, err := firestore.NewClient(ctx, f.projectID, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// AdminClientFactory shares one service-account client across callers. The
// credential is only checked for presence; rules are bypassed.
type AdminClientFactory struct {
	app *firebase.App

	once   sync.Once
	client *firestore.Client
	err    error
}

func NewAdminClientFactory(app *firebase.App) *AdminClientFactory {
	return &AdminClientFactory{app: app}
}

func (f *AdminClientFactory) Client(ctx context.Context, credential string) (*firestore.Client, ReleaseFunc, error) {
	if credential == "" {
		return nil, nil, fmt.Errorf("firestore: empty credential")
	}

	f.once.Do(func() {
		f.client, f.err = f.app.Firestore(context.Background())
		if f.err != nil {
			f.err = fmt.Errorf("failed to get Firestore client: %w", f.err)
		}
	})
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.client, func() {}, nil
}

// Close releases the shared admin client, if one was opened.
func (f *AdminClientFactory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
