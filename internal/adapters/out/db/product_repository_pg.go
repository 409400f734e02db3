package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	productdom "phonemall/internal/domain/product"
)

// ProductSchema creates the products table used by ProductRepositoryPG.
const ProductSchema = `
CREATE TABLE IF NOT EXISTS products (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    price        DOUBLE PRECISION NOT NULL CHECK (price >= 0),
    brand_id     TEXT NOT NULL DEFAULT '',
    color        TEXT NOT NULL DEFAULT '',
    category_ids TEXT[] NOT NULL DEFAULT '{}',
    image        TEXT NOT NULL DEFAULT '',
    storage      TEXT NOT NULL DEFAULT '',
    condition    TEXT NOT NULL DEFAULT 'good',
    stock        INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
    active       BOOLEAN NOT NULL DEFAULT TRUE,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS products_name_idx ON products (lower(name));
`

// ========================================
// Repository Implementation (PostgreSQL)
// ========================================
type ProductRepositoryPG struct {
	DB *sql.DB
}

func NewProductRepositoryPG(db *sql.DB) *ProductRepositoryPG {
	return &ProductRepositoryPG{DB: db}
}

// Ensure interface implementation
var _ productdom.Repository = (*ProductRepositoryPG)(nil)

const productColumns = `id, name, description, price, brand_id, color, category_ids, image, storage, condition, stock, active, created_at, updated_at`

func (r *ProductRepositoryPG) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, ProductSchema)
	return err
}

// ========================================
// List
// ========================================
func (r *ProductRepositoryPG) List(ctx context.Context, f productdom.ListFilter) ([]productdom.Product, error) {
	where, args := buildProductWhereClause(f)
	q := "SELECT " + productColumns + " FROM products " + where + " ORDER BY name ASC, id ASC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	out := []productdom.Product{}
	for rows.Next() {
		var p productdom.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func buildProductWhereClause(f productdom.ListFilter) (string, []any) {
	var clauses []string
	var args []any
	if !f.IncludeInactive {
		clauses = append(clauses, "active = TRUE")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		clauses = append(clauses, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ========================================
// GetByID
// ========================================
func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	q := "SELECT " + productColumns + " FROM products WHERE id = $1"
	var out productdom.Product
	if err := scanProduct(r.DB.QueryRowContext(ctx, q, id), &out); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	return out, nil
}

// ========================================
// Create
// ========================================
func (r *ProductRepositoryPG) Create(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	q := `INSERT INTO products (` + productColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + productColumns

	row := r.DB.QueryRowContext(ctx, q, productArgs(p)...)
	var out productdom.Product
	if err := scanProduct(row, &out); err != nil {
		if isUniqueViolation(err) {
			return productdom.Product{}, productdom.ErrConflict
		}
		return productdom.Product{}, err
	}
	return out, nil
}

// ========================================
// Update
// ========================================

// Update reads the row FOR UPDATE, applies the patch in the domain and
// writes every column back.
func (r *ProductRepositoryPG) Update(ctx context.Context, id string, patch productdom.ProductPatch) (productdom.Product, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return productdom.Product{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var p productdom.Product
	q := "SELECT " + productColumns + " FROM products WHERE id = $1 FOR UPDATE"
	if err := scanProduct(tx.QueryRowContext(ctx, q, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	if err := p.Apply(patch, time.Now()); err != nil {
		return productdom.Product{}, err
	}

	const uq = `
UPDATE products SET
    name = $2, description = $3, price = $4, brand_id = $5, color = $6,
    category_ids = $7, image = $8, storage = $9, condition = $10, stock = $11,
    active = $12, created_at = $13, updated_at = $14
WHERE id = $1`
	if _, err := tx.ExecContext(ctx, uq, productArgs(p)...); err != nil {
		return productdom.Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return productdom.Product{}, err
	}
	return p, nil
}

// ========================================
// Delete
// ========================================
func (r *ProductRepositoryPG) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return productdom.ErrNotFound
	}
	return nil
}

// ========================================
// Helpers
// ========================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner, p *productdom.Product) error {
	var (
		cats      pq.StringArray
		condition string
	)
	if err := s.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.BrandID, &p.Color, &cats,
		&p.ImageRef, &p.Storage, &condition, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return err
	}
	p.CategoryIDs = []string(cats)
	if p.CategoryIDs == nil {
		p.CategoryIDs = []string{}
	}
	p.Condition = productdom.Condition(condition)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return nil
}

func productArgs(p productdom.Product) []any {
	cats := p.CategoryIDs
	if cats == nil {
		cats = []string{}
	}
	cond := p.Condition
	if cond == "" {
		cond = productdom.ConditionGood
	}
	return []any{
		p.ID, p.Name, p.Description, p.Price, p.BrandID, p.Color, pq.Array(cats),
		p.ImageRef, p.Storage, string(cond), p.Stock, p.Active, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
