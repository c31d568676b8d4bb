package utils

import (
	"context"
	"fmt"

	"secondlife/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseAuthClient verifies ID tokens issued to the web client.
var FirebaseAuthClient *auth.Client

// FirebaseInit initializes the Firebase App and Auth client. Without a
// credentials file the application default credentials are used.
func FirebaseInit(ctx context.Context) (*auth.Client, error) {
	var opts []option.ClientOption
	if path := config.AppConfig.FirebaseCredentialsFile; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}

	FirebaseAuthClient = client
	return client, nil
}
