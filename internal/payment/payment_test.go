package payment_test

import (
	"context"
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahinestrog/bookshop/internal/payment"
)

func TestMockGateway(t *testing.T) {
	t.Parallel()

	gw := payment.NewMockGateway(rand.New(rand.NewSource(1)))
	txnRe := regexp.MustCompile(`^TXN\d{6}$`)

	tests := []struct {
		name string
		card string
		ok   bool
	}{
		{name: "ends_1111_fails", card: "4111111111111111", ok: false},
		{name: "other_visa_succeeds", card: "4111111111111112", ok: true},
		{name: "another_card_succeeds", card: "5500000000000004", ok: true},
		{name: "bare_1111_fails", card: "1111", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res := gw.ProcessPayment(context.Background(), payment.Info{CardNumber: tt.card})
			assert.Equal(t, tt.ok, res.Success)
			if tt.ok {
				assert.Equal(t, "Payment processed successfully", res.Message)
				assert.Regexp(t, txnRe, res.TransactionID)
			} else {
				assert.Equal(t, "Payment failed: Invalid card number", res.Message)
				assert.Empty(t, res.TransactionID)
			}
		})
	}
}

func TestMockGateway_DeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a := payment.NewMockGateway(rand.New(rand.NewSource(42)))
	b := payment.NewMockGateway(rand.New(rand.NewSource(42)))

	ra := a.ProcessPayment(context.Background(), payment.Info{CardNumber: "4242424242424242"})
	rb := b.ProcessPayment(context.Background(), payment.Info{CardNumber: "4242424242424242"})
	assert.Equal(t, ra.TransactionID, rb.TransactionID)
}
