// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"astrodesk/config"

	firebase "firebase.google.com/go/v4"
)

// NewFirebaseApp initializes the Firebase App backing firestore, storage and messaging.
func NewFirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	fbCfg := &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.FirebaseBucket,
	}

	app, err := firebase.NewApp(ctx, fbCfg, cfg.GoogleCredentials())
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	return app, nil
}
