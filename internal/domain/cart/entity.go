// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidLine     = errors.New("cart: invalid line")
	ErrInvalidQuantity = errors.New("cart: invalid quantity")
)

// DefaultCartTTL is the inactivity window after which an account cart becomes
// eligible for auto deletion (Firestore TTL is configured on expiresAt).
const DefaultCartTTL = 30 * 24 * time.Hour

// LineKey is the identity of a cart line. Size and Color are optional
// variant discriminators; "" means "no variant". Color compares
// case-insensitively.
type LineKey struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

func (k LineKey) normalized() LineKey {
	return LineKey{
		ProductID: strings.TrimSpace(k.ProductID),
		Size:      strings.TrimSpace(k.Size),
		Color:     strings.ToLower(strings.TrimSpace(k.Color)),
	}
}

// CartLine is one entry in a cart.
type CartLine struct {
	ProductID string  `json:"productId" firestore:"productId"`
	Name      string  `json:"name" firestore:"name"`
	Price     float64 `json:"price" firestore:"price"`
	Quantity  int     `json:"quantity" firestore:"quantity"`
	ImageRef  string  `json:"image" firestore:"image"`
	Size      string  `json:"size,omitempty" firestore:"size,omitempty"`
	Color     string  `json:"color,omitempty" firestore:"color,omitempty"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}.normalized()
}

// LineTotal is Price * Quantity.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart is an ordered list of lines (insertion order, append-on-new).
//
// Invariants:
//   - at most one line per LineKey
//   - every line has Quantity >= 1
//   - Version increases on every state change
type Cart struct {
	Lines     []CartLine `json:"lines"`
	Version   int64      `json:"version"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IsEmpty reports whether c has no lines.
func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Count returns the total number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) Subtotal() float64 {
	total := 0.0
	for _, l := range c.Lines {
		total += l.LineTotal()
	}
	return total
}

// Clone returns a deep copy safe to hand to another goroutine.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}

// Find returns the index of the line with key k, or -1.
func (c Cart) Find(k LineKey) int {
	k = k.normalized()
	for i := range c.Lines {
		if c.Lines[i].Key() == k {
			return i
		}
	}
	return -1
}

// Add increments the matching line by qty or appends a new line.
// It reports whether the line already existed. No upper bound is enforced.
func (c *Cart) Add(line CartLine, qty int, now time.Time) (bool, error) {
	if qty < 1 {
		return false, ErrInvalidQuantity
	}
	line = normalizeLine(line)
	if line.ProductID == "" {
		return false, ErrInvalidLine
	}

	if idx := c.Find(line.Key()); idx >= 0 {
		c.Lines[idx].Quantity += qty
		c.touch(now)
		return true, nil
	}

	line.Quantity = qty
	c.Lines = append(c.Lines, line)
	c.touch(now)
	return false, nil
}

// SetQuantity sets the matching line's quantity exactly. A quantity below 1
// removes the line. It reports whether a matching line existed.
func (c *Cart) SetQuantity(k LineKey, qty int, now time.Time) bool {
	idx := c.Find(k)
	if idx < 0 {
		return false
	}
	if qty < 1 {
		c.Lines = removeIndex(c.Lines, idx)
	} else {
		c.Lines[idx].Quantity = qty
	}
	c.touch(now)
	return true
}

// Remove deletes the matching line and reports whether one existed.
func (c *Cart) Remove(k LineKey, now time.Time) bool {
	idx := c.Find(k)
	if idx < 0 {
		return false
	}
	c.Lines = removeIndex(c.Lines, idx)
	c.touch(now)
	return true
}

// Clear empties the cart. Clearing an empty cart still bumps the version so
// the clear is ordered after any earlier write.
func (c *Cart) Clear(now time.Time) {
	c.Lines = []CartLine{}
	c.touch(now)
}

// Replace swaps in other's lines and moves the version past both.
func (c *Cart) Replace(other Cart, now time.Time) {
	v := c.Version
	if other.Version > v {
		v = other.Version
	}
	c.Lines = other.Clone().Lines
	c.Version = v
	c.touch(now)
}

func (c *Cart) touch(now time.Time) {
	c.Version++
	c.UpdatedAt = now.UTC()
}

func normalizeLine(l CartLine) CartLine {
	l.ProductID = strings.TrimSpace(l.ProductID)
	l.Name = strings.TrimSpace(l.Name)
	l.ImageRef = strings.TrimSpace(l.ImageRef)
	l.Size = strings.TrimSpace(l.Size)
	l.Color = strings.TrimSpace(l.Color)
	return l
}

func removeIndex(lines []CartLine, idx int) []CartLine {
	out := make([]CartLine, 0, len(lines)-1)
	out = append(out, lines[:idx]...)
	return append(out, lines[idx+1:]...)
}

// Normalize drops invalid lines and merges duplicates (summing quantities)
// into the position of their first occurrence.
func Normalize(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	index := make(map[LineKey]int, len(lines))
	for _, l := range lines {
		l = normalizeLine(l)
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		k := l.Key()
		if i, ok := index[k]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[k] = len(out)
		out = append(out, l)
	}
	return out
}
