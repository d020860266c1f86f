package firebase

import (
	"context"
	"testing"

	"rakshak-service/config"
)

func TestSetUpFireBaseWithoutCredentials(t *testing.T) {
	app, err := SetUpFireBase(context.Background(), &config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if app != nil {
		t.Error("expected nil app when no credentials file is configured")
	}
}
