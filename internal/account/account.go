// Package account manages shop accounts: credential storage, the login
// session flag and the per-account order history.
package account

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ahinestrog/bookshop/internal/order"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")

	// local@domain.tld, at least one dot in the domain suffix.
	emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

type Account struct {
	Email   string // normalized lower-case
	Name    string
	Address string

	passwordHash  []byte
	sessionActive bool
	orders        []*order.Order
}

// New validates and normalizes the email and digests the password. The
// raw password is never retained.
func New(email, password, name, address string) (*Account, error) {
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Account{
		Email:        strings.ToLower(email),
		Name:         name,
		Address:      address,
		passwordHash: hash,
	}, nil
}

// VerifyPassword compares candidate against the stored digest. No side
// effect on session state.
func (a *Account) VerifyPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(candidate)) == nil
}

// Login activates the session on a correct password. A wrong password
// leaves the session state untouched, active or not.
func (a *Account) Login(password string) bool {
	if !a.VerifyPassword(password) {
		return false
	}
	a.sessionActive = true
	return true
}

func (a *Account) Logout() {
	a.sessionActive = false
}

func (a *Account) SessionActive() bool {
	return a.sessionActive
}

// RecordOrder appends to the history and keeps it sorted by order date
// ascending. The sort is stable: same-date orders keep arrival order.
func (a *Account) RecordOrder(o *order.Order) {
	a.orders = append(a.orders, o)
	sort.SliceStable(a.orders, func(i, j int) bool {
		return a.orders[i].OrderDate.Before(a.orders[j].OrderDate)
	})
}

// Orders returns the history, oldest first.
func (a *Account) Orders() []*order.Order {
	out := make([]*order.Order, len(a.orders))
	copy(out, a.orders)
	return out
}
