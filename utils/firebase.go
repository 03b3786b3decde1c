// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"medconnect/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client.
// Callers treat an error as "push disabled" rather than fatal.
func FirebaseInit(ctx context.Context) (*messaging.Client, error) {
	if !config.FirebaseEnabled() {
		return nil, fmt.Errorf("firebase: no credentials configured")
	}
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsPath)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}

	FCMClient = client
	return client, nil
}
