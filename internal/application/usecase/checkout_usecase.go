// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	cartdom "phonemall/internal/domain/cart"
	orderdom "phonemall/internal/domain/order"
	productdom "phonemall/internal/domain/product"
)

// OrderMailer sends the confirmation message for a placed order.
type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, o orderdom.Order) error
}

var (
	ErrCheckoutUnauthenticated = errors.New("checkout: sign-in required")
	ErrCheckoutEmptyCart       = errors.New("checkout: cart is empty")
	ErrProductUnavailable      = errors.New("checkout: product unavailable")
)

// CheckoutUsecase turns an account cart into a pending order.
type CheckoutUsecase struct {
	carts    cartdom.AccountStore
	products productdom.Reader
	orders   orderdom.Repository
	mailer   OrderMailer
	now      nowFunc
	newID    func() string
	logger   *log.Entry
}

func NewCheckoutUsecase(carts cartdom.AccountStore, products productdom.Reader, orders orderdom.Repository, mailer OrderMailer) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:    carts,
		products: products,
		orders:   orders,
		mailer:   mailer,
		now:      utcNow,
		newID:    uuid.NewString,
		logger:   log.WithField("component", "checkout"),
	}
}

type CheckoutInput struct {
	UserID   string
	Email    string
	Shipping orderdom.ShippingSnapshot

	// Lines, when non-empty, is the caller's working cart. Otherwise the
	// stored account cart is used.
	Lines []cartdom.CartLine
}

// UnavailableError names the lines that could not be priced.
type UnavailableError struct {
	ProductIDs []string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrProductUnavailable, strings.Join(e.ProductIDs, ","))
}

func (e *UnavailableError) Unwrap() error { return ErrProductUnavailable }

// Checkout:
//  1. loads the cart lines
//  2. re-prices every line from the catalog
//  3. creates a pending order
//  4. clears the account cart (failure logged)
//  5. sends the confirmation mail (failure logged)
func (u *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (orderdom.Order, error) {
	uid := strings.TrimSpace(in.UserID)
	if uid == "" {
		return orderdom.Order{}, ErrCheckoutUnauthenticated
	}

	lines := cartdom.Normalize(in.Lines)
	if len(lines) == 0 {
		c, err := u.carts.ReadCart(ctx, uid)
		if err != nil {
			return orderdom.Order{}, fmt.Errorf("checkout: read cart: %w", err)
		}
		lines = cartdom.Normalize(c.Lines)
	}
	if len(lines) == 0 {
		return orderdom.Order{}, ErrCheckoutEmptyCart
	}

	priced, err := u.price(ctx, lines)
	if err != nil {
		return orderdom.Order{}, err
	}

	o, err := orderdom.New(u.newID(), uid, in.Email, priced, in.Shipping, u.now())
	if err != nil {
		return orderdom.Order{}, err
	}
	o, err = u.orders.Create(ctx, o)
	if err != nil {
		return orderdom.Order{}, fmt.Errorf("checkout: create order: %w", err)
	}

	entry := u.logger.WithFields(log.Fields{"orderId": o.ID, "userId": uid})
	if err := u.carts.ClearCart(ctx, uid); err != nil {
		entry.WithError(err).Warn("clear account cart failed")
	}
	if u.mailer != nil && o.Email != "" {
		if err := u.mailer.SendOrderConfirmation(ctx, o); err != nil {
			entry.WithError(err).Warn("order confirmation mail failed")
		}
	}
	entry.WithField("subtotal", o.Subtotal).Info("order placed")
	return o, nil
}

func (u *CheckoutUsecase) price(ctx context.Context, lines []cartdom.CartLine) ([]cartdom.CartLine, error) {
	out := make([]cartdom.CartLine, 0, len(lines))
	var missing []string
	for _, l := range lines {
		p, err := u.products.GetByID(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, productdom.ErrNotFound) {
				missing = append(missing, l.ProductID)
				continue
			}
			return nil, fmt.Errorf("checkout: load product %s: %w", l.ProductID, err)
		}
		if !p.Active || p.Stock < l.Quantity {
			missing = append(missing, l.ProductID)
			continue
		}
		l.Name = p.Name
		l.Price = p.Price
		if l.ImageRef == "" {
			l.ImageRef = p.ImageRef
		}
		out = append(out, l)
	}
	if len(missing) > 0 {
		return nil, &UnavailableError{ProductIDs: missing}
	}
	return out, nil
}
