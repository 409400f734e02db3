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

	categorydom "phonemall/internal/domain/category"
)

type CategoryRepositoryFS struct {
	Client *firestore.Client
}

func NewCategoryRepositoryFS(client *firestore.Client) *CategoryRepositoryFS {
	return &CategoryRepositoryFS{Client: client}
}

var _ categorydom.Repository = (*CategoryRepositoryFS)(nil)

func (r *CategoryRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("categories")
}

type categoryDoc struct {
	Name        string    `firestore:"name"`
	Slug        string    `firestore:"slug"`
	Description string    `firestore:"description"`
	ImageRef    string    `firestore:"image"`
	SortOrder   int       `firestore:"sortOrder"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func categoryToDoc(c categorydom.Category) categoryDoc {
	return categoryDoc{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageRef:    c.ImageRef,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
}

func categoryFromSnapshot(snap *firestore.DocumentSnapshot) (categorydom.Category, error) {
	var d categoryDoc
	if err := snap.DataTo(&d); err != nil {
		return categorydom.Category{}, fmt.Errorf("category %s: %w", snap.Ref.ID, err)
	}
	return categorydom.Category{
		ID:          snap.Ref.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		ImageRef:    d.ImageRef,
		SortOrder:   d.SortOrder,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (r *CategoryRepositoryFS) List(ctx context.Context) ([]categorydom.Category, error) {
	it := r.col().Documents(ctx)
	defer it.Stop()

	out := []categorydom.Category{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("categories: list: %w", err)
		}
		c, err := categoryFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *CategoryRepositoryFS) GetByID(ctx context.Context, id string) (categorydom.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return categorydom.Category{}, categorydom.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return categorydom.Category{}, categorydom.ErrNotFound
	}
	if err != nil {
		return categorydom.Category{}, err
	}
	return categoryFromSnapshot(snap)
}

// Create uses the slug as document id when none is given.
func (r *CategoryRepositoryFS) Create(ctx context.Context, c categorydom.Category) (categorydom.Category, error) {
	if strings.TrimSpace(c.ID) == "" {
		c.ID = c.Slug
	}
	if err := c.Validate(); err != nil {
		return categorydom.Category{}, err
	}
	if _, err := r.col().Doc(c.ID).Create(ctx, categoryToDoc(c)); err != nil {
		if isAlreadyExists(err) {
			return categorydom.Category{}, categorydom.ErrConflict
		}
		return categorydom.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepositoryFS) Update(ctx context.Context, id string, patch categorydom.CategoryPatch) (categorydom.Category, error) {
	ref := r.col().Doc(strings.TrimSpace(id))
	var out categorydom.Category

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return categorydom.ErrNotFound
		}
		if err != nil {
			return err
		}
		c, err := categoryFromSnapshot(snap)
		if err != nil {
			return err
		}
		if err := c.Apply(patch, time.Now()); err != nil {
			return err
		}
		out = c
		return tx.Set(ref, categoryToDoc(c))
	})
	if err != nil {
		return categorydom.Category{}, err
	}
	return out, nil
}

func (r *CategoryRepositoryFS) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return categorydom.ErrNotFound
	}
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return categorydom.ErrNotFound
	}
	return err
}
