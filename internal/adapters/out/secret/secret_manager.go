// Package secret resolves runtime secrets (SendGrid API key) from
// Google Secret Manager.
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var (
	ErrNotConfigured = errors.New("secret: secret manager not configured")
	ErrEmptyPayload  = errors.New("secret: empty payload")
)

type accessFunc func(ctx context.Context, name string) ([]byte, error)

type Resolver struct {
	projectID string
	access    accessFunc
}

// NewResolver returns a Resolver backed by sm. A nil client yields a
// Resolver whose every lookup fails with ErrNotConfigured.
func NewResolver(sm *secretmanager.Client, projectID string) *Resolver {
	r := &Resolver{projectID: strings.TrimSpace(projectID)}
	if sm != nil {
		r.access = func(ctx context.Context, name string) ([]byte, error) {
			resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
			if err != nil {
				return nil, err
			}
			if resp == nil || resp.Payload == nil {
				return nil, nil
			}
			return resp.Payload.Data, nil
		}
	}
	return r
}

// VersionName expands ref into a full version resource name. ref may be a
// bare secret id ("sendgrid-api-key"), "id:version", or an already qualified
// "projects/.../secrets/.../versions/..." name.
func VersionName(projectID, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("secret: empty secret ref")
	}
	if strings.HasPrefix(ref, "projects/") {
		if !strings.Contains(ref, "/versions/") {
			ref += "/versions/latest"
		}
		return ref, nil
	}
	if projectID == "" {
		return "", errors.New("secret: projectID is empty")
	}
	id, ver := ref, "latest"
	if i := strings.LastIndex(ref, ":"); i > 0 {
		id, ver = ref[:i], ref[i+1:]
		if ver == "" {
			ver = "latest"
		}
	}
	return "projects/" + projectID + "/secrets/" + id + "/versions/" + ver, nil
}

func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	if r == nil || r.access == nil {
		return "", ErrNotConfigured
	}
	name, err := VersionName(r.projectID, ref)
	if err != nil {
		return "", err
	}
	data, err := r.access(ctx, name)
	if err != nil {
		return "", fmt.Errorf("secret: access %s: %w", name, err)
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", fmt.Errorf("%w (%s)", ErrEmptyPayload, name)
	}
	return v, nil
}
