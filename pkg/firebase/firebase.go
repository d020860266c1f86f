package firebase

import (
	"context"

	"rakshak-service/config"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// SetUpFireBase initialises the Firebase app used for Storage and FCM.
// It returns a nil app when no credentials are configured so callers can
// fall back to other backends.
func SetUpFireBase(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	if cfg.Firebase.CredentialsFile == "" {
		return nil, nil
	}

	fbCfg := &firebase.Config{
		ProjectID:     cfg.Firebase.ProjectID,
		StorageBucket: cfg.Storage.FirebaseBucket,
	}

	return firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
}
