// Package events publishes shop domain events to a topic exchange.
package events

import "context"

// Routing keys published by the shop.
const (
	RKUserCreated      = "user.created"
	RKOrderCreated     = "order.created"
	RKConfirmationSent = "order.confirmation_sent"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, v any) error
}

type UserCreatedPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type OrderCreatedPayload struct {
	OrderID      string         `json:"order_id"`
	AccountEmail string         `json:"account_email"`
	Items        []OrderItemEvt `json:"items"`
	Total        string         `json:"total"`
}

type OrderItemEvt struct {
	Title string `json:"title"`
	Qty   int    `json:"qty"`
	Unit  string `json:"unit"`
}

type ConfirmationSentPayload struct {
	OrderID string `json:"order_id"`
	To      string `json:"to"`
	Status  string `json:"status"`
}

// Nop drops everything. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
