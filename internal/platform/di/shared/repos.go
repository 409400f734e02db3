// internal/platform/di/shared/repos.go
package shared

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	pgdb "phonemall/internal/adapters/out/db"
	outfs "phonemall/internal/adapters/out/firestore"
	"phonemall/internal/adapters/out/gcs"
	branddom "phonemall/internal/domain/brand"
	cartdom "phonemall/internal/domain/cart"
	categorydom "phonemall/internal/domain/category"
	orderdom "phonemall/internal/domain/order"
	productdom "phonemall/internal/domain/product"
	userdom "phonemall/internal/domain/user"
	appcfg "phonemall/internal/infra/config"
)

// Repos are the outbound adapters both surfaces share.
type Repos struct {
	Products   productdom.Repository
	Categories categorydom.Repository
	Brands     branddom.Repository
	Orders     orderdom.Repository
	Users      userdom.Repository
	Carts      cartdom.AccountStore

	// Images resolves stored image refs to URLs. Always non-nil.
	Images *gcs.ImageURLResolver
	// ImageStore is nil when no bucket is configured.
	ImageStore *gcs.ProductImageRepositoryGCS
}

// NewRepos picks the catalog backend from config. Everything else lives in
// Firestore.
func NewRepos(ctx context.Context, inf *Infra) (*Repos, error) {
	fs := inf.Firestore.Client
	r := &Repos{
		Categories: outfs.NewCategoryRepositoryFS(fs),
		Brands:     outfs.NewBrandRepositoryFS(fs),
		Orders:     outfs.NewOrderRepositoryFS(fs),
		Users:      outfs.NewUserRepositoryFS(fs),
		Carts:      outfs.NewCartRepositoryFS(fs),
	}

	switch inf.Config.CatalogBackend {
	case appcfg.CatalogPostgres:
		pg := pgdb.NewProductRepositoryPG(inf.Postgres.Client)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("shared.repos: %w", err)
		}
		r.Products = pg
	default:
		r.Products = outfs.NewProductRepositoryFS(fs)
	}
	log.WithFields(log.Fields{"component": "shared.repos", "catalog": inf.Config.CatalogBackend}).Info("catalog backend selected")

	bucket := inf.Config.GCSImageBucket
	r.Images = gcs.NewImageURLResolver(inf.GCS, bucket, inf.Config.GCSSignedURLs)
	if bucket != "" {
		r.ImageStore = gcs.NewProductImageRepositoryGCS(inf.GCS, bucket)
	}
	return r, nil
}
