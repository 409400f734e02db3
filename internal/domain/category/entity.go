package category

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Category groups products (e.g. "smartphones", "5g", "refurbished").
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageRef    string    `json:"image,omitempty"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CategoryPatch struct {
	Name        *string
	Slug        *string
	Description *string
	ImageRef    *string
	SortOrder   *int
}

var (
	ErrInvalidID   = errors.New("category: invalid id")
	ErrInvalidName = errors.New("category: invalid name")
	ErrInvalidSlug = errors.New("category: invalid slug")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func New(id, name, slug, description string, sortOrder int, createdAt time.Time) (Category, error) {
	c := Category{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Slug:        strings.TrimSpace(slug),
		Description: strings.TrimSpace(description),
		SortOrder:   sortOrder,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   createdAt.UTC(),
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if err := c.Validate(); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (c Category) Validate() error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if !slugPattern.MatchString(c.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

func (c *Category) Apply(patch CategoryPatch, now time.Time) error {
	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Slug != nil {
		c.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.Description != nil {
		c.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.ImageRef != nil {
		c.ImageRef = strings.TrimSpace(*patch.ImageRef)
	}
	if patch.SortOrder != nil {
		c.SortOrder = *patch.SortOrder
	}
	c.UpdatedAt = now.UTC()
	return c.Validate()
}

// Slugify lowercases name and joins alphanumeric runs with "-".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
