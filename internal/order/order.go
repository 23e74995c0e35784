// Package order builds immutable snapshots of completed purchases.
package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahinestrog/bookshop/internal/cart"
)

// StatusConfirmed is the status every order starts in. Later transitions
// belong to whoever fulfils the order, not to this package.
const StatusConfirmed = "Confirmed"

// DateFormat is the wire format for order_date in summaries.
const DateFormat = "2006-01-02 15:04:05"

type Order struct {
	ID           string
	AccountEmail string
	Lines        []cart.Line // snapshot, independent of the source cart
	ShippingInfo map[string]string
	PaymentInfo  map[string]string
	TotalAmount  decimal.Decimal
	OrderDate    time.Time
	Status       string
}

// New snapshots lines into an independent copy, stamps the creation time
// and assigns a fresh order id. Payment success is the caller's problem:
// an order must only be built after the gateway reported success.
func New(accountEmail string, lines []cart.Line, shipping, payment map[string]string, total decimal.Decimal) *Order {
	snap := make([]cart.Line, len(lines))
	copy(snap, lines)
	return &Order{
		ID:           uuid.NewString(),
		AccountEmail: accountEmail,
		Lines:        snap,
		ShippingInfo: copyInfo(shipping),
		PaymentInfo:  copyInfo(payment),
		TotalAmount:  total,
		OrderDate:    time.Now(),
		Status:       StatusConfirmed,
	}
}

func copyInfo(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SetStatus records a collaborator-driven status change.
func (o *Order) SetStatus(status string) { o.Status = status }

// Summary is the only externally consumed projection of an order. Field
// names are part of the contract.
type Summary struct {
	OrderID      string            `json:"order_id"`
	AccountEmail string            `json:"account_email"`
	Items        []SummaryLine     `json:"items"`
	ShippingInfo map[string]string `json:"shipping_info"`
	TotalAmount  float64           `json:"total_amount"`
	OrderDate    string            `json:"order_date"`
	Status       string            `json:"status"`
}

type SummaryLine struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ToSummary projects the order for display and notification. Pure.
func (o *Order) ToSummary() Summary {
	items := make([]SummaryLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		price, _ := l.Book.Price.Float64()
		items = append(items, SummaryLine{
			Title:    l.Book.Title,
			Quantity: l.Qty,
			Price:    price,
		})
	}
	total, _ := o.TotalAmount.Float64()
	return Summary{
		OrderID:      o.ID,
		AccountEmail: o.AccountEmail,
		Items:        items,
		ShippingInfo: o.ShippingInfo,
		TotalAmount:  total,
		OrderDate:    o.OrderDate.Format(DateFormat),
		Status:       o.Status,
	}
}
