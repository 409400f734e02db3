// internal/infra/firestore/client.go
package firestoreinfra

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ClientWrapper pairs a Firestore client with its project.
type ClientWrapper struct {
	Client    *firestore.Client
	ProjectID string
}

// NewClient connects to Firestore. Extra options (credentials file, emulator
// endpoint) are passed through; with none, ADC is used.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*ClientWrapper, error) {
	if projectID == "" {
		return nil, errors.New("firestoreinfra: projectID is empty")
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestoreinfra: new client (project=%s): %w", projectID, err)
	}
	log.WithFields(log.Fields{"component": "firestore", "project": projectID}).Info("firestore connected")
	return &ClientWrapper{Client: client, ProjectID: projectID}, nil
}

// Ping lists at most one root collection. Firestore has no ping RPC.
func (cw *ClientWrapper) Ping(ctx context.Context) error {
	if cw == nil || cw.Client == nil {
		return errors.New("firestoreinfra: client is nil")
	}
	_, err := cw.Client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestoreinfra: ping: %w", err)
	}
	return nil
}

func (cw *ClientWrapper) Close() error {
	if cw == nil || cw.Client == nil {
		return nil
	}
	return cw.Client.Close()
}
