// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	productdom "phonemall/internal/domain/product"
)

// ProductRepositoryFS stores products in the "products" collection,
// docId = product id.
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

var _ productdom.Repository = (*ProductRepositoryFS)(nil)

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

type productDoc struct {
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	Price       float64   `firestore:"price"`
	BrandID     string    `firestore:"brandId"`
	Color       string    `firestore:"color"`
	CategoryIDs []string  `firestore:"categoryIds"`
	ImageRef    string    `firestore:"image"`
	Storage     string    `firestore:"storage"`
	Condition   string    `firestore:"condition"`
	Stock       int       `firestore:"stock"`
	Active      bool      `firestore:"active"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func productToDoc(p productdom.Product) productDoc {
	cats := p.CategoryIDs
	if cats == nil {
		cats = []string{}
	}
	return productDoc{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		BrandID:     p.BrandID,
		Color:       p.Color,
		CategoryIDs: cats,
		ImageRef:    p.ImageRef,
		Storage:     p.Storage,
		Condition:   string(p.Condition),
		Stock:       p.Stock,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

// productFromSnapshot reads the raw map so that documents written by the
// console's earlier schema (brand, categoryId, string prices) still load.
func productFromSnapshot(snap *firestore.DocumentSnapshot) (productdom.Product, error) {
	data := snap.Data()
	if data == nil {
		return productdom.Product{}, fmt.Errorf("product %s: empty document", snap.Ref.ID)
	}

	price, ok := asFloat(data["price"])
	if !ok {
		return productdom.Product{}, fmt.Errorf("product %s: %w", snap.Ref.ID, productdom.ErrInvalidPrice)
	}

	brand := asString(data["brandId"])
	if brand == "" {
		brand = asString(data["brand"])
	}
	cats := asStringSlice(data["categoryIds"])
	if len(cats) == 0 {
		cats = asStringSlice(data["categoryId"])
	}

	p := productdom.Product{
		ID:          snap.Ref.ID,
		Name:        asString(data["name"]),
		Description: asString(data["description"]),
		Price:       price,
		BrandID:     brand,
		Color:       asString(data["color"]),
		CategoryIDs: productdom.NormalizeIDs(cats),
		ImageRef:    asString(data["image"]),
		Storage:     asString(data["storage"]),
		Condition:   productdom.Condition(asString(data["condition"])),
		Stock:       asInt(data["stock"]),
		Active:      asBool(data["active"], true),
	}
	if t, ok := asTime(data["createdAt"]); ok {
		p.CreatedAt = t
	}
	if t, ok := asTime(data["updatedAt"]); ok {
		p.UpdatedAt = t
	}
	if err := p.Validate(); err != nil {
		return productdom.Product{}, fmt.Errorf("product %s: %w", snap.Ref.ID, err)
	}
	return p, nil
}

// List returns products sorted by name. Firestore has no substring search,
// so the name filter runs after the read.
func (r *ProductRepositoryFS) List(ctx context.Context, f productdom.ListFilter) ([]productdom.Product, error) {
	it := r.col().OrderBy("name", firestore.Asc).Documents(ctx)
	defer it.Stop()

	out := []productdom.Product{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("products: list: %w", err)
		}
		p, err := productFromSnapshot(snap)
		if err != nil {
			log.WithField("component", "product_repository_fs").WithError(err).Warn("skipping malformed product")
			continue
		}
		if !f.IncludeInactive && !p.Active {
			continue
		}
		if !p.MatchesSearch(f.Search) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return productdom.Product{}, productdom.ErrNotFound
	}
	if err != nil {
		return productdom.Product{}, err
	}
	return productFromSnapshot(snap)
}

func (r *ProductRepositoryFS) Create(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	var ref *firestore.DocumentRef
	if strings.TrimSpace(p.ID) == "" {
		ref = r.col().NewDoc()
		p.ID = ref.ID
	} else {
		ref = r.col().Doc(p.ID)
	}

	if _, err := ref.Create(ctx, productToDoc(p)); err != nil {
		if isAlreadyExists(err) {
			return productdom.Product{}, productdom.ErrConflict
		}
		return productdom.Product{}, err
	}
	return p, nil
}

func (r *ProductRepositoryFS) Update(ctx context.Context, id string, patch productdom.ProductPatch) (productdom.Product, error) {
	ref := r.col().Doc(strings.TrimSpace(id))
	var out productdom.Product

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return productdom.ErrNotFound
		}
		if err != nil {
			return err
		}
		p, err := productFromSnapshot(snap)
		if err != nil {
			return err
		}
		if err := p.Apply(patch, time.Now()); err != nil {
			return err
		}
		out = p
		return tx.Set(ref, productToDoc(p))
	})
	if err != nil {
		return productdom.Product{}, err
	}
	return out, nil
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.ErrNotFound
	}
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return productdom.ErrNotFound
	}
	return err
}
