package orders

import (
	"strings"
	"time"
)

const (
	// UnitPrice is the per-bag price in naira.
	UnitPrice = 500
	// DiscountPrice applies when the promo code matches.
	DiscountPrice = 450
	// PromoCode is compared case-insensitively against customer input.
	PromoCode = "KEBTYE10"
)

// CheckoutInput is the raw checkout form after quantity has been parsed at
// the HTTP boundary.
type CheckoutInput struct {
	Name          string
	SenderPhone   string
	ReceiverPhone string
	Qty           int
	PromoCode     string
}

// New builds a priced order from checkout input. The order id is derived from
// the creation time in milliseconds and the total is fixed here; later status
// edits never recompute it.
func New(in CheckoutInput, now time.Time) Order {
	price := UnitPrice
	discount := false
	if strings.EqualFold(strings.TrimSpace(in.PromoCode), PromoCode) {
		price = DiscountPrice
		discount = true
	}
	return Order{
		ID:            now.UnixMilli(),
		Name:          in.Name,
		SenderPhone:   in.SenderPhone,
		ReceiverPhone: in.ReceiverPhone,
		Qty:           in.Qty,
		Total:         in.Qty * price,
		Discount:      discount,
		Status:        StatusPending,
		Time:          now.Format("3:04:05 PM"),
	}
}
