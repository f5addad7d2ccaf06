package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/cs121-teamhub/teamhub-backend/config"
	fs "github.com/cs121-teamhub/teamhub-backend/internal/storage/firestore"
)

// NewFirebaseApp initializes the Firebase Admin SDK. Without a credentials
// file it falls back to application default credentials, which is also what
// the emulators expect.
func NewFirebaseApp(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

// NewAuthClient returns the Admin SDK auth client used to verify ID tokens.
func NewAuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}
	return authClient, nil
}

// NewFirestoreProvider picks the Firestore client mode. In user mode each
// call is made with the caller's ID token; in admin mode through the
// service account.
func NewFirestoreProvider(ctx context.Context, cfg *config.FirebaseConfig) (fs.Provider, func() error, error) {
	switch cfg.FirestoreMode {
	case config.FirestoreModeAdmin:
		if cfg.CredentialsPath == "" {
			return nil, nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required when FIRESTORE_MODE=%s", config.FirestoreModeAdmin)
		}
		app, err := NewFirebaseApp(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		factory := fs.NewAdminClientFactory(app)
		return factory, factory.Close, nil
	default:
		return fs.NewUserClientFactory(cfg.ProjectID), func() error { return nil }, nil
	}
}
