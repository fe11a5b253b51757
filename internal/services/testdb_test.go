package services_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"woolshop/internal/domain"
)

// memdb opens an in-memory store with the subset of the schema these tests
// touch. Single connection so every query sees the same memory database.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE products(
	  id TEXT PRIMARY KEY,
	  name TEXT NOT NULL,
	  slug TEXT NOT NULL UNIQUE,
	  price NUMERIC NOT NULL CHECK (price >= 0),
	  images_json TEXT NOT NULL DEFAULT '[]',
	  tags_json TEXT NOT NULL DEFAULT '[]',
	  description TEXT NOT NULL DEFAULT '',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	  updated_at TEXT
	);
	CREATE TABLE orders(
	  id TEXT PRIMARY KEY,
	  customer_name TEXT NOT NULL,
	  customer_phone TEXT NOT NULL,
	  customer_address TEXT NOT NULL DEFAULT '',
	  note TEXT NOT NULL DEFAULT '',
	  status TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new','confirmed','cancelled')),
	  total_amount NUMERIC NOT NULL,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	  updated_at TEXT
	);
	CREATE TABLE order_items(
	  order_id TEXT NOT NULL,
	  line_no INTEGER NOT NULL,
	  product_id TEXT NOT NULL,
	  qty INTEGER NOT NULL,
	  price NUMERIC NOT NULL,
	  PRIMARY KEY (order_id, line_no)
	);
	CREATE TABLE contacts(
	  id TEXT PRIMARY KEY,
	  name TEXT NOT NULL,
	  phone TEXT NOT NULL,
	  message TEXT NOT NULL,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE users(
	  id TEXT PRIMARY KEY,
	  email TEXT NOT NULL UNIQUE,
	  name TEXT NOT NULL,
	  password_hash TEXT NOT NULL,
	  role TEXT NOT NULL
	);
	CREATE TABLE sessions(
	  id TEXT PRIMARY KEY,
	  user_id TEXT,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	  last_seen TEXT
	);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fixtureProduct struct {
	Name  string
	Slug  string
	Price string
	Tags  []string
	Desc  string
}

func insertProduct(t *testing.T, db *sqlx.DB, f fixtureProduct) string {
	t.Helper()
	id := uuid.NewString()
	tags := f.Tags
	if tags == nil {
		tags = []string{"handmade"}
	}
	tagsJSON, _ := json.Marshal(tags)
	_, err := db.Exec(`
	  INSERT INTO products(id, name, slug, price, images_json, tags_json, description)
	  VALUES(?,?,?,?,?,?,?)
	`, id, f.Name, f.Slug, f.Price, `["https://img.test/1.jpg"]`, string(tagsJSON), f.Desc)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func placedOrder(t *testing.T, db *sqlx.DB, status, total string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(`
	  INSERT INTO orders(id, customer_name, customer_phone, status, total_amount)
	  VALUES(?,?,?,?,?)
	`, id, "Lan", "0901234567", status, total)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func someCustomer() domain.Customer {
	return domain.Customer{Name: "Lan", Phone: "0901234567", Address: "12 Hang Gai, Ha Noi"}
}
