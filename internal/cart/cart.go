// Package cart implements the shopping cart: a mutable mapping from book
// title to a quantity line. A cart belongs to a single caller context;
// concurrent use needs external locking.
package cart

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ahinestrog/bookshop/internal/catalog"
)

var ErrQuantityNotInt = errors.New("quantity must be an integer")

// Line is one (book, quantity) pair held by a cart.
type Line struct {
	Book catalog.Book
	Qty  int
}

func (l Line) Total() decimal.Decimal {
	return l.Book.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

type Cart struct {
	lines map[string]*Line
}

func New() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

// Add upserts a line. An existing title has its quantity incremented by
// qty; the delta may be negative and may drive the line negative. Use
// SetQuantity for authoritative values.
func (c *Cart) Add(b catalog.Book, qty int) {
	if l, ok := c.lines[b.Title]; ok {
		l.Qty += qty
		return
	}
	c.lines[b.Title] = &Line{Book: b, Qty: qty}
}

// Remove deletes the line for title. Absent titles are a no-op.
func (c *Cart) Remove(title string) {
	delete(c.lines, title)
}

// SetQuantity overwrites the quantity for title. A quantity of zero or
// less removes the line. Absent titles are a no-op.
func (c *Cart) SetQuantity(title string, qty int) {
	l, ok := c.lines[title]
	if !ok {
		return
	}
	if qty <= 0 {
		delete(c.lines, title)
		return
	}
	l.Qty = qty
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

func (c *Cart) Clear() {
	c.lines = make(map[string]*Line)
}

// Items returns a snapshot of the current lines, independent of later
// mutation of the cart.
func (c *Cart) Items() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, *l)
	}
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Contains reports whether a line exists for title.
func (c *Cart) Contains(title string) bool {
	_, ok := c.lines[title]
	return ok
}

// Quantity returns the current quantity for title, zero when absent.
func (c *Cart) Quantity(title string) int {
	if l, ok := c.lines[title]; ok {
		return l.Qty
	}
	return 0
}

// ParseQuantity converts untyped quantity input (form values, JSON read
// as string) into an int. Non-integer text fails with ErrQuantityNotInt.
func ParseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrQuantityNotInt, s)
	}
	return n, nil
}
