package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	var c Cart
	_, _ = c.Add(CartLine{ProductID: "p1", Name: "iPhone 12", Price: 300, ImageRef: "a.jpg", Color: "red"}, 2, t0)

	s, err := Encode(c)
	require.NoError(t, err)

	got, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, c.Version, got.Version)
	assert.True(t, c.UpdatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, c.Lines, got.Lines)
}

func TestEncodeEmptyCartHasLinesArray(t *testing.T) {
	s, err := Encode(Cart{})
	require.NoError(t, err)
	assert.Contains(t, s, `"lines":[]`)
}

func TestDecodeLegacyArray(t *testing.T) {
	got, err := Decode(`[{"productId":"p1","quantity":1},{"productId":"p1","quantity":2},{"productId":"p2","quantity":0}]`)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 3, got.Lines[0].Quantity)
	assert.Zero(t, got.Version)
}

func TestDecodeMalformed(t *testing.T) {
	for _, s := range []string{"", "   ", "{", "not json", `{"version":-1,"lines":[]}`, `[1,2]`} {
		_, err := Decode(s)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", s)
	}
}
