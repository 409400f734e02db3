package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonemall/internal/domain/cart"
)

var now = time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

func ship() ShippingSnapshot {
	return ShippingSnapshot{Name: "Ann", City: "Osaka", Street: "1-2-3", Country: "JP"}
}

func TestNew(t *testing.T) {
	lines := []cart.CartLine{
		{ProductID: "p1", Price: 199.99, Quantity: 2},
		{ProductID: "p2", Price: 50, Quantity: 1},
	}

	t.Run("ok", func(t *testing.T) {
		o, err := New("o1", "u1", "a@b.c", lines, ship(), now)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, o.Status)
		assert.InDelta(t, 449.98, o.Subtotal, 0.001)
	})

	t.Run("no lines", func(t *testing.T) {
		_, err := New("o1", "u1", "", nil, ship(), now)
		assert.ErrorIs(t, err, ErrInvalidLines)
	})

	t.Run("zero quantity line", func(t *testing.T) {
		_, err := New("o1", "u1", "", []cart.CartLine{{ProductID: "p1", Quantity: 0}}, ship(), now)
		assert.ErrorIs(t, err, ErrInvalidLines)
	})

	t.Run("missing shipping", func(t *testing.T) {
		_, err := New("o1", "u1", "", lines, ShippingSnapshot{Name: "x"}, now)
		assert.ErrorIs(t, err, ErrInvalidShippingAddress)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := New("o1", " ", "", lines, ship(), now)
		assert.ErrorIs(t, err, ErrInvalidUserID)
	})
}

func TestTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPaid, StatusShipped, true},
		{StatusPaid, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusPaid, false},
		{StatusPending, StatusDelivered, false},
	}
	for _, c := range cases {
		t.Run(string(c.from)+"->"+string(c.to), func(t *testing.T) {
			o := Order{Status: c.from}
			err := o.Transition(c.to, now)
			if c.ok {
				require.NoError(t, err)
				assert.Equal(t, c.to, o.Status)
				assert.Equal(t, now, o.UpdatedAt)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, c.from, o.Status)
			}
		})
	}

	o := Order{Status: StatusPending}
	assert.ErrorIs(t, o.Transition("lost", now), ErrInvalidStatus)
}
