// Package email defines the confirmation-mail port. Delivery is
// fire-and-forget: a failed send never touches an already-confirmed
// order.
package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ahinestrog/bookshop/internal/order"
)

type Receipt struct {
	To      string `json:"to"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type Sender interface {
	SendOrderConfirmation(ctx context.Context, to string, o *order.Order) (Receipt, error)
}

// LogSender writes the confirmation to the log instead of a mailbox.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendOrderConfirmation(_ context.Context, to string, o *order.Order) (Receipt, error) {
	items := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, fmt.Sprintf("%s x%d @ $%s", l.Book.Title, l.Qty, l.Book.Price.StringFixed(2)))
	}
	s.log.Info().
		Str("to", to).
		Str("order_id", o.ID).
		Str("order_date", o.OrderDate.Format(order.DateFormat)).
		Str("total", "$"+o.TotalAmount.StringFixed(2)).
		Strs("items", items).
		Str("address", o.ShippingInfo["address"]).
		Msg("order confirmation sent")
	return Receipt{To: to, OrderID: o.ID, Status: "sent"}, nil
}
