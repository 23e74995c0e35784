package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahinestrog/bookshop/internal/catalog"
)

func TestNew(t *testing.T) {
	t.Parallel()

	b, err := catalog.New("Test Book", "Tech", decimal.NewFromFloat(25.0), "image.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Test Book", b.Title)
	assert.Equal(t, "Tech", b.Category)
	assert.Equal(t, "25", b.Price.String())
	assert.Equal(t, "image.jpg", b.Image)
}

func TestNew_PriceValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		price decimal.Decimal
		ok    bool
	}{
		{name: "zero", price: decimal.Zero, ok: true},
		{name: "positive", price: decimal.NewFromFloat(10.99), ok: true},
		{name: "negative", price: decimal.NewFromFloat(-0.01), ok: false},
		{name: "very_negative", price: decimal.NewFromInt(-100), ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := catalog.New("X", "Y", tt.price, "z.jpg")
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, catalog.ErrNegativePrice)
			}
		})
	}
}

func TestNew_TitleStoredVerbatim(t *testing.T) {
	t.Parallel()

	// Titles are opaque identity, not markup. Stored as-is.
	title := "<script>alert('xss')</script>"
	b, err := catalog.New(title, "Test", decimal.NewFromInt(10), "img.jpg")
	require.NoError(t, err)
	assert.Equal(t, title, b.Title)
}

func TestDemo(t *testing.T) {
	t.Parallel()

	books := catalog.Demo()
	require.Len(t, books, 3)
	assert.Equal(t, "The Great Gatsby", books[0].Title)
	assert.Equal(t, "10.99", books[0].Price.String())
}
