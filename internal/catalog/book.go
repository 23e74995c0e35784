// Package catalog holds the immutable product records the rest of the
// shop is built from.
package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrNegativePrice = errors.New("price must be non-negative")

// Book is an immutable catalog record. Title doubles as the identity a
// cart keys its lines by.
type Book struct {
	Title    string
	Category string
	Price    decimal.Decimal
	Image    string
}

func New(title, category string, price decimal.Decimal, image string) (Book, error) {
	if price.IsNegative() {
		return Book{}, fmt.Errorf("%w: %s", ErrNegativePrice, price)
	}
	return Book{Title: title, Category: category, Price: price, Image: image}, nil
}

// MustNew panics on a negative price. Seed data and tests only.
func MustNew(title, category string, price decimal.Decimal, image string) Book {
	b, err := New(title, category, price, image)
	if err != nil {
		panic(err)
	}
	return b
}
