// Package seed loads a catalog described in YAML into the configured
// repositories. Existing records are updated in place.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"phonemall/internal/application/usecase"
	branddom "phonemall/internal/domain/brand"
	categorydom "phonemall/internal/domain/category"
	productdom "phonemall/internal/domain/product"
)

// Catalog is the file format:
//
//	brands:
//	  - {id: apple, name: Apple, websiteUrl: https://apple.com}
//	categories:
//	  - {id: flagship, name: Flagship, slug: flagship}
//	products:
//	  - {id: ip12-128-blk, name: iPhone 12, price: 349, brand: apple, color: black,
//	     categories: [flagship], storage: 128GB, condition: good, stock: 3}
type Catalog struct {
	Brands     []Brand    `yaml:"brands"`
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

type Brand struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Logo        string `yaml:"logo"`
	WebsiteURL  string `yaml:"websiteUrl"`
}

type Category struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	SortOrder   int    `yaml:"sortOrder"`
}

type Product struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Brand       string   `yaml:"brand"`
	Color       string   `yaml:"color"`
	Categories  []string `yaml:"categories"`
	Image       string   `yaml:"image"`
	Storage     string   `yaml:"storage"`
	Condition   string   `yaml:"condition"`
	Stock       int      `yaml:"stock"`
	Active      *bool    `yaml:"active"`
}

// Parse decodes a catalog file. Unknown keys are rejected.
func Parse(r io.Reader) (Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, nil
		}
		return Catalog{}, fmt.Errorf("seed: parse: %w", err)
	}
	return c, nil
}

type BrandWriter interface {
	Create(ctx context.Context, in usecase.CreateBrandInput) (branddom.Brand, error)
	Update(ctx context.Context, id string, patch branddom.BrandPatch) (branddom.Brand, error)
}

type CategoryWriter interface {
	Create(ctx context.Context, in usecase.CreateCategoryInput) (categorydom.Category, error)
	Update(ctx context.Context, id string, patch categorydom.CategoryPatch) (categorydom.Category, error)
}

type ProductWriter interface {
	Create(ctx context.Context, in usecase.CreateProductInput) (productdom.Product, error)
	Update(ctx context.Context, id string, patch productdom.ProductPatch) (productdom.Product, error)
}

type Loader struct {
	Brands     BrandWriter
	Categories CategoryWriter
	Products   ProductWriter
}

// Result counts created and updated records.
type Result struct {
	Created int
	Updated int
}

// Load writes brands, then categories, then products. It stops at the first
// failure.
func (l Loader) Load(ctx context.Context, c Catalog) (Result, error) {
	logger := log.WithField("component", "seed")
	var res Result

	count := func(created bool) {
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	for _, b := range c.Brands {
		created, err := upsert(
			func() error {
				_, err := l.Brands.Create(ctx, usecase.CreateBrandInput{ID: b.ID, Name: b.Name, Description: b.Description, LogoRef: b.Logo, WebsiteURL: b.WebsiteURL})
				return err
			},
			func() error {
				_, err := l.Brands.Update(ctx, b.ID, branddom.BrandPatch{Name: &b.Name, Description: &b.Description, LogoRef: &b.Logo, URL: &b.WebsiteURL})
				return err
			},
			branddom.ErrConflict,
		)
		if err != nil {
			return res, fmt.Errorf("seed: brand %q: %w", b.ID, err)
		}
		count(created)
	}

	for _, cat := range c.Categories {
		created, err := upsert(
			func() error {
				_, err := l.Categories.Create(ctx, usecase.CreateCategoryInput{ID: cat.ID, Name: cat.Name, Slug: cat.Slug, Description: cat.Description, ImageRef: cat.Image, SortOrder: cat.SortOrder})
				return err
			},
			func() error {
				_, err := l.Categories.Update(ctx, cat.ID, categorydom.CategoryPatch{Name: &cat.Name, Slug: &cat.Slug, Description: &cat.Description, ImageRef: &cat.Image, SortOrder: &cat.SortOrder})
				return err
			},
			categorydom.ErrConflict,
		)
		if err != nil {
			return res, fmt.Errorf("seed: category %q: %w", cat.ID, err)
		}
		count(created)
	}

	for _, p := range c.Products {
		cond := productdom.Condition(p.Condition)
		created, err := upsert(
			func() error {
				_, err := l.Products.Create(ctx, usecase.CreateProductInput{
					ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price,
					BrandID: p.Brand, Color: p.Color, CategoryIDs: p.Categories, ImageRef: p.Image,
					Storage: p.Storage, Condition: cond, Stock: p.Stock, Active: p.Active,
				})
				return err
			},
			func() error {
				patch := productdom.ProductPatch{
					Name: &p.Name, Description: &p.Description, Price: &p.Price,
					BrandID: &p.Brand, Color: &p.Color, CategoryIDs: &p.Categories, ImageRef: &p.Image,
					Storage: &p.Storage, Stock: &p.Stock, Active: p.Active,
				}
				if cond != "" {
					patch.Condition = &cond
				}
				_, err := l.Products.Update(ctx, p.ID, patch)
				return err
			},
			productdom.ErrConflict,
		)
		if err != nil {
			return res, fmt.Errorf("seed: product %q: %w", p.ID, err)
		}
		count(created)
	}

	logger.WithFields(log.Fields{"created": res.Created, "updated": res.Updated}).Info("catalog seeded")
	return res, nil
}

// upsert runs create and falls back to update when create reports conflict.
func upsert(create, update func() error, conflict error) (created bool, err error) {
	err = create()
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, conflict) {
		return false, err
	}
	return false, update()
}
