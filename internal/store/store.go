// Package store archives confirmed orders in sqlite. The in-memory
// domain stays authoritative; the archive is a collaborator the checkout
// flow writes through after confirmation.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go driver

	"github.com/ahinestrog/bookshop/internal/cart"
	"github.com/ahinestrog/bookshop/internal/catalog"
	"github.com/ahinestrog/bookshop/internal/order"
)

var ErrNotFound = errors.New("not found")

type OrderStore struct {
	db *sql.DB
}

func Open(dsn string) (*OrderStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s := &OrderStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *OrderStore) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  account_email TEXT NOT NULL,
  shipping_json TEXT NOT NULL,
  total TEXT NOT NULL,
  status TEXT NOT NULL,
  created_unix INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS order_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id TEXT NOT NULL,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit TEXT NOT NULL,
  FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(account_email);
CREATE INDEX IF NOT EXISTS idx_items_order ON order_items(order_id);
`
	_, err := s.db.Exec(schema)
	return err
}

func (s *OrderStore) Close() error { return s.db.Close() }

func (s *OrderStore) Save(ctx context.Context, o *order.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	shipping, err := json.Marshal(o.ShippingInfo)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
  INSERT INTO orders(id, account_email, shipping_json, total, status, created_unix)
  VALUES(?,?,?,?,?,?)`,
		o.ID, o.AccountEmail, string(shipping), o.TotalAmount.String(), o.Status, o.OrderDate.Unix())
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
  INSERT INTO order_items(order_id, title, category, qty, unit)
  VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range o.Lines {
		if _, err := stmt.ExecContext(ctx,
			o.ID, l.Book.Title, l.Book.Category, l.Qty, l.Book.Price.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *OrderStore) Get(ctx context.Context, orderID string) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx, `
    SELECT id, account_email, shipping_json, total, status, created_unix
    FROM orders WHERE id=?`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	lines, err := s.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

func (s *OrderStore) ListByEmail(ctx context.Context, email string) ([]*order.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
    SELECT id, account_email, shipping_json, total, status, created_unix
    FROM orders WHERE account_email=? ORDER BY created_unix ASC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		lines, err := s.listItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var (
		o        order.Order
		shipping string
		total    string
		created  int64
	)
	if err := row.Scan(&o.ID, &o.AccountEmail, &shipping, &total, &o.Status, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(shipping), &o.ShippingInfo); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.TotalAmount = amount
	o.OrderDate = time.Unix(created, 0)
	return &o, nil
}

func (s *OrderStore) listItems(ctx context.Context, orderID string) ([]cart.Line, error) {
	rows, err := s.db.QueryContext(ctx, `
    SELECT title, category, qty, unit
    FROM order_items WHERE order_id=?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cart.Line
	for rows.Next() {
		var (
			l    cart.Line
			b    catalog.Book
			unit string
		)
		if err := rows.Scan(&b.Title, &b.Category, &l.Qty, &unit); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(unit)
		if err != nil {
			return nil, err
		}
		b.Price = price
		l.Book = b
		out = append(out, l)
	}
	return out, rows.Err()
}
