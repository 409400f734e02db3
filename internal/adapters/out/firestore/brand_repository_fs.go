// internal/adapters/out/firestore/brand_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	branddom "phonemall/internal/domain/brand"
)

// ========================================
// Firestore Repository Implementation
// ========================================

type BrandRepositoryFS struct {
	Client *firestore.Client
}

func NewBrandRepositoryFS(client *firestore.Client) *BrandRepositoryFS {
	return &BrandRepositoryFS{Client: client}
}

func (r *BrandRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("brands")
}

// Ensure interface implementation
var _ branddom.Repository = (*BrandRepositoryFS)(nil)

func (r *BrandRepositoryFS) List(ctx context.Context) ([]branddom.Brand, error) {
	it := r.col().Documents(ctx)
	defer it.Stop()

	out := []branddom.Brand{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("brands: list: %w", err)
		}
		out = append(out, r.docToDomain(snap))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *BrandRepositoryFS) GetByID(ctx context.Context, id string) (branddom.Brand, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return branddom.Brand{}, branddom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return branddom.Brand{}, branddom.ErrNotFound
	}
	if err != nil {
		return branddom.Brand{}, err
	}
	return r.docToDomain(snap), nil
}

func (r *BrandRepositoryFS) Create(ctx context.Context, b branddom.Brand) (branddom.Brand, error) {
	if err := b.Validate(); err != nil {
		return branddom.Brand{}, err
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}

	// Firestore: generate ID if empty
	var ref *firestore.DocumentRef
	if strings.TrimSpace(b.ID) == "" {
		ref = r.col().NewDoc()
		b.ID = ref.ID
	} else {
		ref = r.col().Doc(b.ID)
	}

	if _, err := ref.Create(ctx, r.domainToDocData(b)); err != nil {
		if isAlreadyExists(err) {
			return branddom.Brand{}, branddom.ErrConflict
		}
		return branddom.Brand{}, err
	}
	return b, nil
}

func (r *BrandRepositoryFS) Update(ctx context.Context, id string, patch branddom.BrandPatch) (branddom.Brand, error) {
	ref := r.col().Doc(strings.TrimSpace(id))
	var out branddom.Brand

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return branddom.ErrNotFound
		}
		if err != nil {
			return err
		}
		b := r.docToDomain(snap)
		if err := b.Apply(patch, time.Now()); err != nil {
			return err
		}
		out = b
		return tx.Set(ref, r.domainToDocData(b))
	})
	if err != nil {
		return branddom.Brand{}, err
	}
	return out, nil
}

func (r *BrandRepositoryFS) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return branddom.ErrNotFound
	}
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return branddom.ErrNotFound
	}
	return err
}

// ========================================
// Mapping Helpers
// ========================================

func (r *BrandRepositoryFS) docToDomain(snap *firestore.DocumentSnapshot) branddom.Brand {
	data := snap.Data()
	b := branddom.Brand{
		ID:          snap.Ref.ID,
		Name:        asString(data["name"]),
		Description: asString(data["description"]),
		LogoRef:     asString(data["logo"]),
		URL:         asString(data["websiteUrl"]),
	}
	if t, ok := asTime(data["createdAt"]); ok {
		b.CreatedAt = t
	}
	if t, ok := asTime(data["updatedAt"]); ok {
		b.UpdatedAt = t
	}
	return b
}

func (r *BrandRepositoryFS) domainToDocData(b branddom.Brand) map[string]any {
	return map[string]any{
		"name":        strings.TrimSpace(b.Name),
		"description": strings.TrimSpace(b.Description),
		"logo":        strings.TrimSpace(b.LogoRef),
		"websiteUrl":  strings.TrimSpace(b.URL),
		"createdAt":   b.CreatedAt.UTC(),
		"updatedAt":   b.UpdatedAt.UTC(),
	}
}
