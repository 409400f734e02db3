package gcs

import (
	"context"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
)

const defaultSignedURLTTL = 15 * time.Minute

// SignFunc issues a GET URL for bucket/object valid until expires.
type SignFunc func(ctx context.Context, bucket, object string, expires time.Time) (string, error)

// ImageURLResolver turns stored image references into URLs a browser can
// load. With Signed=true it issues V4 signed URLs (private buckets);
// otherwise it builds public URLs.
type ImageURLResolver struct {
	Bucket string
	Signed bool
	TTL    time.Duration
	Sign   SignFunc
	Now    func() time.Time
}

// NewImageURLResolver wires signing to client's credentials.
func NewImageURLResolver(client *storage.Client, bucket string, signed bool) *ImageURLResolver {
	r := &ImageURLResolver{Bucket: strings.TrimSpace(bucket), Signed: signed, TTL: defaultSignedURLTTL}
	if client != nil {
		r.Sign = func(_ context.Context, b, obj string, expires time.Time) (string, error) {
			return client.Bucket(b).SignedURL(obj, &storage.SignedURLOptions{
				Scheme:  storage.SigningSchemeV4,
				Method:  http.MethodGet,
				Expires: expires,
			})
		}
	}
	return r
}

// Resolve returns "" for an empty ref and passes non-GCS URLs through.
// Signing failures fall back to the public URL.
func (r *ImageURLResolver) Resolve(ctx context.Context, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	bucket, obj, ok := ParseRef(ref)
	if !ok {
		return ref
	}
	if bucket == "" {
		bucket = r.Bucket
	}
	if bucket == "" {
		return ref
	}

	if r.Signed && r.Sign != nil {
		u, err := r.Sign(ctx, bucket, obj, r.now().Add(r.ttl()))
		if err == nil {
			return u
		}
		log.WithFields(log.Fields{"component": "image_url_resolver", "bucket": bucket, "object": obj}).
			WithError(err).Warn("signing failed; using public url")
	}
	return PublicURL(bucket, obj, r.Bucket)
}

func (r *ImageURLResolver) ttl() time.Duration {
	if r.TTL <= 0 {
		return defaultSignedURLTTL
	}
	return r.TTL
}

func (r *ImageURLResolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
