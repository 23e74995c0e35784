// Package payment defines the gateway port the checkout flow charges
// through, plus the mock provider used by the demo wiring.
package payment

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

type Info struct {
	CardNumber string
	CardHolder string
	Expiry     string
}

// Result is a normal value, not an error: callers branch on Success.
type Result struct {
	Success       bool
	Message       string
	TransactionID string
}

type Gateway interface {
	ProcessPayment(ctx context.Context, info Info) Result
}

// MockGateway approves everything except card numbers ending in 1111.
// Approved charges get a TXN reference from the injected source, so tests
// can seed it.
type MockGateway struct {
	rng *rand.Rand
}

func NewMockGateway(rng *rand.Rand) *MockGateway {
	return &MockGateway{rng: rng}
}

func (g *MockGateway) ProcessPayment(_ context.Context, info Info) Result {
	if strings.HasSuffix(info.CardNumber, "1111") {
		return Result{
			Success: false,
			Message: "Payment failed: Invalid card number",
		}
	}
	return Result{
		Success:       true,
		Message:       "Payment processed successfully",
		TransactionID: fmt.Sprintf("TXN%d", 100000+g.rng.Intn(900000)),
	}
}
