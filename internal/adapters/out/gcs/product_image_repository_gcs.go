package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrUnsupportedImageType = errors.New("gcs: unsupported image content type")

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ProductImageRepositoryGCS stores uploaded product photos under
// products/<productId>/<uuid><ext> in Bucket.
type ProductImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewProductImageRepositoryGCS(client *storage.Client, bucket string) *ProductImageRepositoryGCS {
	return &ProductImageRepositoryGCS{Client: client, Bucket: strings.TrimSpace(bucket)}
}

// ObjectPath builds the object name for a new upload.
func ObjectPath(productID, contentType string) (string, error) {
	ext, ok := imageExt[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", ErrUnsupportedImageType
	}
	productID = strings.Trim(strings.TrimSpace(productID), "/")
	if productID == "" {
		return "", errors.New("gcs: productID is empty")
	}
	return path.Join("products", productID, uuid.NewString()+ext), nil
}

// Upload writes r and returns the gs:// reference to store on the product.
func (s *ProductImageRepositoryGCS) Upload(ctx context.Context, productID, contentType string, r io.Reader) (string, error) {
	if s == nil || s.Client == nil {
		return "", errors.New("product_image_repository_gcs: nil storage client")
	}
	if s.Bucket == "" {
		return "", errors.New("product_image_repository_gcs: bucket is empty")
	}
	obj, err := ObjectPath(productID, contentType)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.Client.Bucket(s.Bucket).Object(obj).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs: upload %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: finalize %s: %w", obj, err)
	}

	log.WithFields(log.Fields{"component": "product_image_repository_gcs", "object": obj, "bytes": w.Attrs().Size}).Info("uploaded product image")
	return fmt.Sprintf("gs://%s/%s", s.Bucket, obj), nil
}

// Delete removes the object behind ref; missing objects are not an error.
func (s *ProductImageRepositoryGCS) Delete(ctx context.Context, ref string) error {
	bucket, obj, ok := ParseRef(ref)
	if !ok {
		return nil
	}
	if bucket == "" {
		bucket = s.Bucket
	}
	err := s.Client.Bucket(bucket).Object(obj).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
