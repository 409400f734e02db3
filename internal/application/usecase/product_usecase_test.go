package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	branddom "phonemall/internal/domain/brand"
	productdom "phonemall/internal/domain/product"
)

func TestProductCreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := newMemProducts()
	uc := NewProductUsecase(repo, nil)
	uc.now = fixedClock

	inactive := false
	p, err := uc.Create(ctx, CreateProductInput{
		Name: " Galaxy S22 ", Price: 410, BrandID: "samsung", Color: "green",
		CategoryIDs: []string{"5g", "5g", ""}, Storage: "256GB",
		Condition: productdom.ConditionLikeNew, Stock: 2, Active: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", p.ID)
	assert.Equal(t, "Galaxy S22", p.Name)
	assert.Equal(t, []string{"5g"}, p.CategoryIDs)
	assert.False(t, p.Active)

	all, err := uc.List(ctx, "galaxy")
	require.NoError(t, err)
	assert.Len(t, all, 1, "console lists inactive products")

	_, err = uc.Create(ctx, CreateProductInput{Name: "x", Price: -1})
	assert.ErrorIs(t, err, productdom.ErrInvalidPrice)
	_, err = uc.Create(ctx, CreateProductInput{Name: "x", Condition: "mint"})
	assert.ErrorIs(t, err, productdom.ErrInvalidCondition)
}

func TestProductUploadImageReplacesOld(t *testing.T) {
	ctx := context.Background()
	repo := newMemProducts(productdom.Product{ID: "p1", Name: "Pixel", Price: 100, ImageRef: "gs://bucket/products/p1/old.png", Active: true})
	imgs := &memImages{}
	uc := NewProductUsecase(repo, imgs)

	p, err := uc.UploadImage(ctx, "p1", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "gs://bucket/products/p1/new.png", p.ImageRef)
	assert.Equal(t, []byte("png-bytes"), imgs.uploaded[p.ImageRef])
	assert.Equal(t, []string{"gs://bucket/products/p1/old.png"}, imgs.deleted)

	_, err = uc.UploadImage(ctx, "missing", "image/png", strings.NewReader(""))
	assert.ErrorIs(t, err, productdom.ErrNotFound)

	imgs.err = errors.New("bucket gone")
	_, err = uc.UploadImage(ctx, "p1", "image/png", strings.NewReader(""))
	assert.Error(t, err)

	_, err = NewProductUsecase(repo, nil).UploadImage(ctx, "p1", "image/png", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrImageStoreMissing)
}

func TestProductDeleteCleansImage(t *testing.T) {
	ctx := context.Background()
	repo := newMemProducts(productdom.Product{ID: "p1", Name: "Pixel", ImageRef: "gs://b/x.png"})
	imgs := &memImages{}
	uc := NewProductUsecase(repo, imgs)

	require.NoError(t, uc.Delete(ctx, "p1"))
	assert.Equal(t, []string{"gs://b/x.png"}, imgs.deleted)
	assert.ErrorIs(t, uc.Delete(ctx, "p1"), productdom.ErrNotFound)
}

type memBrands struct{ items map[string]branddom.Brand }

func (m *memBrands) List(context.Context) ([]branddom.Brand, error) {
	out := make([]branddom.Brand, 0, len(m.items))
	for _, b := range m.items {
		out = append(out, b)
	}
	return out, nil
}
func (m *memBrands) GetByID(_ context.Context, id string) (branddom.Brand, error) {
	b, ok := m.items[id]
	if !ok {
		return branddom.Brand{}, branddom.ErrNotFound
	}
	return b, nil
}
func (m *memBrands) Create(_ context.Context, b branddom.Brand) (branddom.Brand, error) {
	if b.ID == "" {
		b.ID = strings.ToLower(b.Name)
	}
	m.items[b.ID] = b
	return b, nil
}
func (m *memBrands) Update(_ context.Context, id string, patch branddom.BrandPatch) (branddom.Brand, error) {
	b, ok := m.items[id]
	if !ok {
		return branddom.Brand{}, branddom.ErrNotFound
	}
	if err := b.Apply(patch, fixedNow); err != nil {
		return branddom.Brand{}, err
	}
	m.items[id] = b
	return b, nil
}
func (m *memBrands) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func TestBrandUsecase(t *testing.T) {
	ctx := context.Background()
	uc := NewBrandUsecase(&memBrands{items: map[string]branddom.Brand{}})
	uc.now = fixedClock

	b, err := uc.Create(ctx, CreateBrandInput{Name: "Apple", WebsiteURL: "https://apple.com"})
	require.NoError(t, err)
	assert.Equal(t, "apple", b.ID)
	assert.Equal(t, fixedNow, b.CreatedAt)

	_, err = uc.Create(ctx, CreateBrandInput{Name: "Bad", WebsiteURL: "ftp://x"})
	assert.ErrorIs(t, err, branddom.ErrInvalidURL)

	bad := "notaurl"
	_, err = uc.Update(ctx, "apple", branddom.BrandPatch{URL: &bad})
	assert.ErrorIs(t, err, branddom.ErrInvalidURL)
}
