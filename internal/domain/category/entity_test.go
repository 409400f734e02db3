package category

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "refurbished-iphones", Slugify("Refurbished iPhones"))
	assert.Equal(t, "5g-phones", Slugify("  5G // Phones!! "))
	assert.Equal(t, "", Slugify("***"))
}

func TestNew(t *testing.T) {
	now := time.Now()

	c, err := New("", "Foldables", "", "", 2, now)
	require.NoError(t, err)
	assert.Equal(t, "foldables", c.Slug)

	_, err = New("", "Foldables", "Not A Slug", "", 0, now)
	assert.ErrorIs(t, err, ErrInvalidSlug)

	_, err = New("", " ", "x", "", 0, now)
	assert.ErrorIs(t, err, ErrInvalidName)
}
