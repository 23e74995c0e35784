// Package checkout orchestrates the purchase flow: authenticate, charge,
// snapshot the order, notify.
package checkout

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ahinestrog/bookshop/internal/account"
	"github.com/ahinestrog/bookshop/internal/cart"
	"github.com/ahinestrog/bookshop/internal/email"
	"github.com/ahinestrog/bookshop/internal/events"
	"github.com/ahinestrog/bookshop/internal/order"
	"github.com/ahinestrog/bookshop/internal/payment"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrNotLoggedIn = errors.New("account has no active session")
)

// Archive receives confirmed orders. A write failure never un-confirms
// an order.
type Archive interface {
	Save(ctx context.Context, o *order.Order) error
}

type Service struct {
	registry *account.Registry
	gateway  payment.Gateway
	mailer   email.Sender
	pub      events.Publisher
	archive  Archive // may be nil
	log      zerolog.Logger
}

func NewService(reg *account.Registry, gw payment.Gateway, mailer email.Sender, pub events.Publisher, archive Archive, log zerolog.Logger) *Service {
	return &Service{
		registry: reg,
		gateway:  gw,
		mailer:   mailer,
		pub:      pub,
		archive:  archive,
		log:      log,
	}
}

// Register creates an account and claims its email in the registry.
func (s *Service) Register(ctx context.Context, email, password, name, address string) (*account.Account, error) {
	acct, err := account.New(email, password, name, address)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Register(acct); err != nil {
		return nil, err
	}
	if err := s.pub.Publish(ctx, events.RKUserCreated, events.UserCreatedPayload{
		Email: acct.Email,
		Name:  acct.Name,
	}); err != nil {
		s.log.Warn().Err(err).Msg("publish user.created failed")
	}
	return acct, nil
}

// Login resolves the account and activates its session on a correct
// password. Unknown emails and wrong passwords are indistinguishable to
// the caller.
func (s *Service) Login(email, password string) (*account.Account, bool) {
	acct := s.registry.Lookup(email)
	if acct == nil {
		return nil, false
	}
	if !acct.Login(password) {
		return nil, false
	}
	return acct, true
}

// Checkout runs the purchase flow for an authenticated account. Payment
// rejection is a result, not an error: the returned order is nil and the
// caller branches on res.Success. After confirmation the archive, event
// and mail collaborators are best-effort, and the cart is emptied.
func (s *Service) Checkout(ctx context.Context, acct *account.Account, crt *cart.Cart, shipping map[string]string, info payment.Info) (*order.Order, payment.Result, error) {
	if !acct.SessionActive() {
		return nil, payment.Result{}, ErrNotLoggedIn
	}
	if crt.IsEmpty() {
		return nil, payment.Result{}, ErrEmptyCart
	}

	res := s.gateway.ProcessPayment(ctx, info)
	if !res.Success {
		s.log.Info().Str("email", acct.Email).Str("reason", res.Message).Msg("payment rejected")
		return nil, res, nil
	}

	payInfo := map[string]string{
		"method":         "card",
		"card_last4":     last4(info.CardNumber),
		"transaction_id": res.TransactionID,
	}
	o := order.New(acct.Email, crt.Items(), shipping, payInfo, crt.TotalPrice())
	acct.RecordOrder(o)

	if s.archive != nil {
		if err := s.archive.Save(ctx, o); err != nil {
			s.log.Warn().Err(err).Str("order_id", o.ID).Msg("order archive write failed")
		}
	}

	items := make([]events.OrderItemEvt, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, events.OrderItemEvt{
			Title: l.Book.Title,
			Qty:   l.Qty,
			Unit:  l.Book.Price.String(),
		})
	}
	if err := s.pub.Publish(ctx, events.RKOrderCreated, events.OrderCreatedPayload{
		OrderID:      o.ID,
		AccountEmail: o.AccountEmail,
		Items:        items,
		Total:        o.TotalAmount.String(),
	}); err != nil {
		s.log.Warn().Err(err).Str("order_id", o.ID).Msg("publish order.created failed")
	}

	receipt, err := s.mailer.SendOrderConfirmation(ctx, acct.Email, o)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", o.ID).Msg("confirmation mail failed")
	} else {
		if err := s.pub.Publish(ctx, events.RKConfirmationSent, events.ConfirmationSentPayload{
			OrderID: receipt.OrderID,
			To:      receipt.To,
			Status:  receipt.Status,
		}); err != nil {
			s.log.Warn().Err(err).Str("order_id", o.ID).Msg("publish confirmation_sent failed")
		}
	}

	crt.Clear()
	s.log.Info().
		Str("order_id", o.ID).
		Str("email", o.AccountEmail).
		Str("total", o.TotalAmount.StringFixed(2)).
		Msg("order confirmed")
	return o, res, nil
}

func last4(card string) string {
	if len(card) <= 4 {
		return card
	}
	return card[len(card)-4:]
}
