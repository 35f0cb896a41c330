// Package fcm delivers notifications through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// ClientConfig holds what is needed to initialise the Firebase app.
type ClientConfig struct {
	ProjectID string
	// CredentialsFile is optional. When empty, Application Default Credentials are used.
	CredentialsFile string
}

// NewMessagingClient initialises a Firebase app and returns its messaging client.
// Extra options are appended after the credentials option.
func NewMessagingClient(ctx context.Context, cfg ClientConfig, logger *slog.Logger, opts ...option.ClientOption) (*messaging.Client, error) {
	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		logger.Debug("Using explicit Firebase credentials", "file", cfg.CredentialsFile)
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create fcm messaging client: %w", err)
	}
	return client, nil
}
