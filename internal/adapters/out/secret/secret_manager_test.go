package secret

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionName(t *testing.T) {
	cases := []struct {
		project, ref, want string
	}{
		{"p1", "sendgrid-api-key", "projects/p1/secrets/sendgrid-api-key/versions/latest"},
		{"p1", "sendgrid-api-key:3", "projects/p1/secrets/sendgrid-api-key/versions/3"},
		{"p1", "sendgrid-api-key:", "projects/p1/secrets/sendgrid-api-key/versions/latest"},
		{"", "projects/p2/secrets/k", "projects/p2/secrets/k/versions/latest"},
		{"", "projects/p2/secrets/k/versions/7", "projects/p2/secrets/k/versions/7"},
	}
	for _, tc := range cases {
		got, err := VersionName(tc.project, tc.ref)
		require.NoError(t, err, tc.ref)
		assert.Equal(t, tc.want, got)
	}

	_, err := VersionName("", "k")
	assert.Error(t, err)
	_, err = VersionName("p", " ")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	_, err := NewResolver(nil, "p").Resolve(ctx, "k")
	assert.ErrorIs(t, err, ErrNotConfigured)

	var asked string
	r := &Resolver{projectID: "p", access: func(_ context.Context, name string) ([]byte, error) {
		asked = name
		return []byte("  SG.abc \n"), nil
	}}
	v, err := r.Resolve(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "SG.abc", v)
	assert.Equal(t, "projects/p/secrets/k/versions/latest", asked)

	r.access = func(context.Context, string) ([]byte, error) { return nil, nil }
	_, err = r.Resolve(ctx, "k")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	boom := errors.New("permission denied")
	r.access = func(context.Context, string) ([]byte, error) { return nil, boom }
	_, err = r.Resolve(ctx, "k")
	assert.ErrorIs(t, err, boom)
}
