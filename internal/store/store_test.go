package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahinestrog/bookshop/internal/cart"
	"github.com/ahinestrog/bookshop/internal/catalog"
	"github.com/ahinestrog/bookshop/internal/order"
	"github.com/ahinestrog/bookshop/internal/store"
)

func openStore(t *testing.T) *store.OrderStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func demoOrder(email string) *order.Order {
	lines := []cart.Line{
		{Book: catalog.MustNew("The Great Gatsby", "Fiction", decimal.NewFromFloat(10.99), "img1.jpg"), Qty: 2},
		{Book: catalog.MustNew("1984", "Dystopia", decimal.NewFromFloat(8.99), "img2.jpg"), Qty: 1},
	}
	return order.New(email, lines,
		map[string]string{"address": "123 Test Lane"},
		map[string]string{"transaction_id": "TXN123456"},
		decimal.NewFromFloat(30.97))
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	o := demoOrder("test@example.com")
	require.NoError(t, s.Save(ctx, o))

	got, err := s.Get(ctx, o.ID)
	require.NoError(t, err)

	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, "test@example.com", got.AccountEmail)
	assert.Equal(t, order.StatusConfirmed, got.Status)
	assert.Equal(t, "30.97", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "123 Test Lane", got.ShippingInfo["address"])
	assert.WithinDuration(t, o.OrderDate, got.OrderDate, time.Second)

	require.Len(t, got.Lines, 2)
	byTitle := map[string]cart.Line{}
	for _, l := range got.Lines {
		byTitle[l.Book.Title] = l
	}
	assert.Equal(t, 2, byTitle["The Great Gatsby"].Qty)
	assert.Equal(t, "10.99", byTitle["The Great Gatsby"].Book.Price.String())
	assert.Equal(t, "Dystopia", byTitle["1984"].Book.Category)
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListByEmail(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	first := demoOrder("list@example.com")
	first.OrderDate = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := demoOrder("list@example.com")
	second.OrderDate = time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	other := demoOrder("other@example.com")

	// Insert newest first; listing must come back oldest first.
	require.NoError(t, s.Save(ctx, second))
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, other))

	got, err := s.ListByEmail(ctx, "list@example.com")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)

	none, err := s.ListByEmail(ctx, "absent@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}
