// internal/domain/brand/entity.go
package brand

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Brand is a handset manufacturer shown in the storefront filter sidebar.
type Brand struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoRef     string    `json:"logo,omitempty"`
	URL         string    `json:"websiteUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BrandPatch: nil = no change.
type BrandPatch struct {
	Name        *string
	Description *string
	LogoRef     *string
	URL         *string
}

var (
	ErrInvalidID   = errors.New("brand: invalid id")
	ErrInvalidName = errors.New("brand: invalid name")
	ErrInvalidURL  = errors.New("brand: invalid url")
)

func New(id, name, description, logoRef, websiteURL string, createdAt time.Time) (Brand, error) {
	createdAt = createdAt.UTC()
	b := Brand{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		LogoRef:     strings.TrimSpace(logoRef),
		URL:         strings.TrimSpace(websiteURL),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := b.Validate(); err != nil {
		return Brand{}, err
	}
	return b, nil
}

// Validate allows an empty ID; the repository assigns one on create.
func (b Brand) Validate() error {
	if b.Name == "" {
		return ErrInvalidName
	}
	if b.URL != "" && !isValidURL(b.URL) {
		return ErrInvalidURL
	}
	return nil
}

func (b *Brand) Apply(patch BrandPatch, now time.Time) error {
	if patch.Name != nil {
		b.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		b.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.LogoRef != nil {
		b.LogoRef = strings.TrimSpace(*patch.LogoRef)
	}
	if patch.URL != nil {
		b.URL = strings.TrimSpace(*patch.URL)
	}
	b.UpdatedAt = now.UTC()
	return b.Validate()
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
