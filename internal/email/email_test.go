package email_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahinestrog/bookshop/internal/cart"
	"github.com/ahinestrog/bookshop/internal/catalog"
	"github.com/ahinestrog/bookshop/internal/email"
	"github.com/ahinestrog/bookshop/internal/order"
)

func TestLogSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sender := email.NewLogSender(zerolog.New(&buf))

	lines := []cart.Line{
		{Book: catalog.MustNew("The Great Gatsby", "Fiction", decimal.NewFromFloat(10.99), "img1.jpg"), Qty: 1},
	}
	o := order.New("test@example.com", lines,
		map[string]string{"address": "123 Test Lane"}, nil, decimal.NewFromFloat(10.99))

	receipt, err := sender.SendOrderConfirmation(context.Background(), "test@example.com", o)
	require.NoError(t, err)

	assert.Equal(t, "test@example.com", receipt.To)
	assert.Equal(t, o.ID, receipt.OrderID)
	assert.Equal(t, "sent", receipt.Status)

	out := buf.String()
	assert.Contains(t, out, o.ID)
	assert.Contains(t, out, "The Great Gatsby x1 @ $10.99")
	assert.Contains(t, out, "123 Test Lane")
}
