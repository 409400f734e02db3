package mail

import (
	"context"
	"fmt"
	"strings"

	orderdom "phonemall/internal/domain/order"
)

// OrderMailer renders and sends the order confirmation message.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
	shopName    string
	mallBaseURL string
}

func NewOrderMailer(client EmailClient, fromAddress, shopName, mallBaseURL string) *OrderMailer {
	if shopName == "" {
		shopName = "PhoneMall"
	}
	return &OrderMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		shopName:    shopName,
		mallBaseURL: strings.TrimRight(mallBaseURL, "/"),
	}
}

func (m *OrderMailer) SendOrderConfirmation(ctx context.Context, o orderdom.Order) error {
	if strings.TrimSpace(o.Email) == "" {
		return ErrNoRecipient
	}
	subject := fmt.Sprintf("[%s] Order %s received", m.shopName, shortID(o.ID))
	return m.client.Send(ctx, m.fromAddress, o.Email, subject, m.renderConfirmation(o))
}

func (m *OrderMailer) renderConfirmation(o orderdom.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order at %s.\n\n", m.shopName)
	fmt.Fprintf(&b, "Order: %s\n", o.ID)
	fmt.Fprintf(&b, "Placed: %s\n\n", o.CreatedAt.Format("2006-01-02 15:04 MST"))

	for _, l := range o.Lines {
		variant := strings.TrimSpace(strings.Join(nonEmpty(l.Size, l.Color), " / "))
		if variant != "" {
			variant = " (" + variant + ")"
		}
		fmt.Fprintf(&b, "  %d x %s%s  %.2f\n", l.Quantity, l.Name, variant, l.LineTotal())
	}
	fmt.Fprintf(&b, "\nSubtotal: %.2f\n\n", o.Subtotal)

	s := o.Shipping
	fmt.Fprintf(&b, "Ship to:\n  %s\n  %s", s.Name, s.Street)
	if s.Street2 != "" {
		fmt.Fprintf(&b, " %s", s.Street2)
	}
	fmt.Fprintf(&b, "\n  %s %s %s\n  %s\n", s.City, s.State, s.ZipCode, s.Country)

	if m.mallBaseURL != "" {
		fmt.Fprintf(&b, "\nTrack your order: %s/orders/%s\n", m.mallBaseURL, o.ID)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func nonEmpty(vs ...string) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
