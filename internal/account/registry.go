package account

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrDuplicateEmail = errors.New("email already registered")

// Registry owns duplicate detection across accounts, keyed by the
// normalized email. Accounts themselves know nothing about each other.
// Unlike the entities it hands out, the registry is shared across
// requests, so it guards its map itself.
type Registry struct {
	mu      sync.Mutex
	byEmail map[string]*Account
}

func NewRegistry() *Registry {
	return &Registry{byEmail: make(map[string]*Account)}
}

// Register adds a to the registry. Emails compare case-insensitively.
func (r *Registry) Register(a *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[a.Email]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, a.Email)
	}
	r.byEmail[a.Email] = a
	return nil
}

// Lookup finds an account by email, nil when absent.
func (r *Registry) Lookup(email string) *Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byEmail[strings.ToLower(email)]
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}
