// internal/domain/order/entity.go
package order

import (
	"errors"
	"math"
	"strings"
	"time"

	"phonemall/internal/domain/cart"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether s -> next is an allowed move.
func (s Status) CanTransition(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// ShippingSnapshot is the address copied into the order at checkout.
type ShippingSnapshot struct {
	Name    string `json:"name" firestore:"name"`
	ZipCode string `json:"zipCode" firestore:"zipCode"`
	State   string `json:"state" firestore:"state"`
	City    string `json:"city" firestore:"city"`
	Street  string `json:"street" firestore:"street"`
	Street2 string `json:"street2,omitempty" firestore:"street2"`
	Country string `json:"country" firestore:"country"`
}

type Order struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Email     string           `json:"email"`
	Lines     []cart.CartLine  `json:"lines"`
	Subtotal  float64          `json:"subtotal"`
	Status    Status           `json:"status"`
	Shipping  ShippingSnapshot `json:"shipping"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

var (
	ErrInvalidID              = errors.New("order: invalid id")
	ErrInvalidUserID          = errors.New("order: invalid userId")
	ErrInvalidShippingAddress = errors.New("order: invalid shipping")
	ErrInvalidLines           = errors.New("order: invalid lines")
	ErrInvalidCreatedAt       = errors.New("order: invalid createdAt")
	ErrInvalidStatus          = errors.New("order: invalid status")
	ErrInvalidTransition      = errors.New("order: invalid status transition")
)

// New builds a pending order from priced cart lines.
func New(id, userID, email string, lines []cart.CartLine, shipping ShippingSnapshot, createdAt time.Time) (Order, error) {
	o := Order{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		Email:     strings.TrimSpace(email),
		Lines:     cart.Normalize(lines),
		Status:    StatusPending,
		Shipping:  normalizeShipping(shipping),
		CreatedAt: createdAt.UTC(),
		UpdatedAt: createdAt.UTC(),
	}
	if len(o.Lines) != len(lines) {
		return Order{}, ErrInvalidLines
	}
	o.Subtotal = subtotal(o.Lines)
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Transition moves the order to next if allowed.
func (o *Order) Transition(next Status, now time.Time) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransition(next) {
		return ErrInvalidTransition
	}
	o.Status = next
	o.UpdatedAt = now.UTC()
	return nil
}

func (o Order) validate() error {
	if o.ID == "" {
		return ErrInvalidID
	}
	if o.UserID == "" {
		return ErrInvalidUserID
	}
	if len(o.Lines) == 0 {
		return ErrInvalidLines
	}
	for _, l := range o.Lines {
		if l.Price < 0 || math.IsNaN(l.Price) {
			return ErrInvalidLines
		}
	}
	if err := validateShipping(o.Shipping); err != nil {
		return err
	}
	if o.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func validateShipping(s ShippingSnapshot) error {
	if s.Name == "" || s.City == "" || s.Street == "" || s.Country == "" {
		return ErrInvalidShippingAddress
	}
	return nil
}

func normalizeShipping(s ShippingSnapshot) ShippingSnapshot {
	s.Name = strings.TrimSpace(s.Name)
	s.ZipCode = strings.TrimSpace(s.ZipCode)
	s.State = strings.TrimSpace(s.State)
	s.City = strings.TrimSpace(s.City)
	s.Street = strings.TrimSpace(s.Street)
	s.Street2 = strings.TrimSpace(s.Street2)
	s.Country = strings.TrimSpace(s.Country)
	return s
}

func subtotal(lines []cart.CartLine) float64 {
	c := cart.Cart{Lines: lines}
	return math.Round(c.Subtotal()*100) / 100
}
