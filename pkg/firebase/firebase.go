package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"prezz/config"
)

// NewFirestore initialises the Firebase app and returns its Firestore client.
// Without a credentials file the application default credentials are used.
func NewFirestore(ctx context.Context, cfg *config.FirebaseConfig, logger *zap.Logger) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore: %w", err)
	}

	logger.Info("firestore connected", zap.String("project_id", cfg.ProjectID))
	return client, nil
}
