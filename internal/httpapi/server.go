// Package httpapi exposes the shop over JSON HTTP. Accounts and carts
// are not safe for concurrent use, so the server owns the locking the
// domain asks its caller for: each account has at most one live session,
// and every handler that touches an account or its cart holds that
// account's lock. The registry guards itself.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/ahinestrog/bookshop/internal/account"
	"github.com/ahinestrog/bookshop/internal/cart"
	"github.com/ahinestrog/bookshop/internal/catalog"
	"github.com/ahinestrog/bookshop/internal/checkout"
	"github.com/ahinestrog/bookshop/internal/payment"
)

const sessionCookie = "sid"

type session struct {
	acct *account.Account
	cart *cart.Cart
}

type Server struct {
	svc    *checkout.Service
	books  map[string]catalog.Book
	titles []string // catalog display order
	log    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	emailSid map[string]string      // account email -> live session id
	locks    map[string]*sync.Mutex // per-account serialization
}

func NewServer(svc *checkout.Service, books []catalog.Book, log zerolog.Logger) *Server {
	byTitle := make(map[string]catalog.Book, len(books))
	titles := make([]string, 0, len(books))
	for _, b := range books {
		byTitle[b.Title] = b
		titles = append(titles, b.Title)
	}
	return &Server{
		svc:      svc,
		books:    byTitle,
		titles:   titles,
		log:      log,
		sessions: make(map[string]*session),
		emailSid: make(map[string]string),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /books", s.handleBooks)
	mux.HandleFunc("GET /cart", s.handleCart)
	mux.HandleFunc("POST /cart/add", s.handleCartAdd)
	mux.HandleFunc("POST /cart/remove", s.handleCartRemove)
	mux.HandleFunc("POST /cart/quantity", s.handleCartQuantity)
	mux.HandleFunc("POST /cart/clear", s.handleCartClear)
	mux.HandleFunc("POST /checkout", s.handleCheckout)
	mux.HandleFunc("GET /orders", s.handleOrders)
	return cors.Default().Handler(mux)
}

func (s *Server) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

func (s *Server) session(r *http.Request) *session {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[c.Value]
}

// acctMu returns the lock serializing all requests for one account.
func (s *Server) acctMu(email string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.locks[email]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[email] = mu
	}
	return mu
}

// lockedSession resolves the request's session and takes its account
// lock. The caller must invoke unlock when sess is non-nil.
func (s *Server) lockedSession(r *http.Request) (sess *session, unlock func()) {
	sess = s.session(r)
	if sess == nil {
		return nil, nil
	}
	mu := s.acctMu(sess.acct.Email)
	mu.Lock()
	return sess, mu.Unlock
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.ctx(r)
	defer cancel()

	acct, err := s.svc.Register(ctx,
		r.FormValue("email"), r.FormValue("password"),
		r.FormValue("name"), r.FormValue("address"))
	switch {
	case errors.Is(err, account.ErrInvalidEmail):
		httpError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, account.ErrDuplicateEmail):
		httpError(w, http.StatusConflict, err)
		return
	case err != nil:
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"email": acct.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(r.FormValue("email"))
	mu := s.acctMu(email)
	mu.Lock()
	defer mu.Unlock()

	acct, ok := s.svc.Login(email, r.FormValue("password"))
	if !ok {
		httpError(w, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	// One live session per account: a new login evicts the old one.
	sid := uuid.NewString()
	s.mu.Lock()
	if old, ok := s.emailSid[acct.Email]; ok {
		delete(s.sessions, old)
	}
	s.sessions[sid] = &session{acct: acct, cart: cart.New()}
	s.emailSid[acct.Email] = sid
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	})
	s.log.Debug().Str("email", acct.Email).Msg("session opened")
	writeJSON(w, http.StatusOK, map[string]string{"email": acct.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, unlock := s.lockedSession(r)
	if sess == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	defer unlock()

	sess.acct.Logout()
	s.mu.Lock()
	if c, err := r.Cookie(sessionCookie); err == nil {
		delete(s.sessions, c.Value)
		if s.emailSid[sess.acct.Email] == c.Value {
			delete(s.emailSid, sess.acct.Email)
		}
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBooks(w http.ResponseWriter, _ *http.Request) {
	type bookView struct {
		Title    string  `json:"title"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Image    string  `json:"image"`
	}
	out := make([]bookView, 0, len(s.titles))
	for _, title := range s.titles {
		b := s.books[title]
		price, _ := b.Price.Float64()
		out = append(out, bookView{Title: b.Title, Category: b.Category, Price: price, Image: b.Image})
	}
	writeJSON(w, http.StatusOK, out)
}

type cartView struct {
	Items      []cartLineView `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice float64        `json:"total_price"`
}

type cartLineView struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func viewOf(c *cart.Cart) cartView {
	v := cartView{Items: []cartLineView{}}
	for _, l := range c.Items() {
		price, _ := l.Book.Price.Float64()
		v.Items = append(v.Items, cartLineView{Title: l.Book.Title, Quantity: l.Qty, Price: price})
	}
	v.TotalItems = c.TotalItems()
	v.TotalPrice, _ = c.TotalPrice().Float64()
	return v
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	sess, unlock := s.lockedSession(r)
	if sess == nil {
		httpError(w, http.StatusUnauthorized, errors.New("no session"))
		return
	}
	defer unlock()
	writeJSON(w, http.StatusOK, viewOf(sess.cart))
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	sess, unlock := s.lockedSession(r)
	if sess == nil {
		httpError(w, http.StatusUnauthorized, errors.New("no session"))
		return
	}
	defer unlock()
	b, ok := s.books[r.FormValue("title")]
	if !ok {
		httpError(w, http.StatusNotFound, errors.New("unknown title"))
		return
	}
	qty := 1
	if v := r.FormValue("qty"); v != "" {
		n, err := cart.ParseQuantity(v)
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}
		qty = n
	}
	sess.cart.Add(b, qty)
	writeJSON(w, http.StatusOK, viewOf(sess.cart))
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	sess, unlock := s.lockedSession(r)
	if sess == nil {
		httpError(w, http.StatusUnauthorized, errors.New("no session"))
		return
	}
	defer unlock()
	sess.cart.Remove(r.FormValue("title"))
	writeJSON(w, http.StatusOK, viewOf(sess.cart))
}

func (s *Server) handleCartQuantity(w http.ResponseWriter, r *http.Request) {
	sess, unlock := s.lockedSession(r)
	if sess == nil {
		httpError(w, http.StatusUnauthorized, errors.New("no session"))
		return
	}
	defer unlock()
	qty, err := cart.ParseQuantity(r.FormValue("qty"))
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	sess.cart.SetQuantity(r.FormValue("title"), qty)
	writeJSON(w, http.StatusOK, viewOf(sess.cart))
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	sess, unlock := s.lockedSession(r)
	if sess == nil {
		httpError(w, http.StatusUnauthorized, errors.New("no session"))
		return
	}
	defer unlock()
	sess.cart.Clear()
	writeJSON(w, http.StatusOK, viewOf(sess.cart))
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sess, unlock := s.lockedSession(r)
	if sess == nil {
		httpError(w, http.StatusUnauthorized, errors.New("no session"))
		return
	}
	defer unlock()
	ctx, cancel := s.ctx(r)
	defer cancel()

	shipping := map[string]string{"address": r.FormValue("address")}
	if shipping["address"] == "" {
		shipping["address"] = sess.acct.Address
	}
	info := payment.Info{
		CardNumber: r.FormValue("card_number"),
		CardHolder: r.FormValue("card_holder"),
		Expiry:     r.FormValue("expiry"),
	}

	o, res, err := s.svc.Checkout(ctx, sess.acct, sess.cart, shipping, info)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		httpError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, checkout.ErrNotLoggedIn):
		httpError(w, http.StatusUnauthorized, err)
		return
	case err != nil:
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	if !res.Success {
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"success": false,
			"message": res.Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"message":        res.Message,
		"transaction_id": res.TransactionID,
		"order":          o.ToSummary(),
	})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	sess, unlock := s.lockedSession(r)
	if sess == nil {
		httpError(w, http.StatusUnauthorized, errors.New("no session"))
		return
	}
	defer unlock()
	orders := sess.acct.Orders()
	out := make([]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ToSummary())
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
