package repos

import (
	"database/sql/driver"
	"encoding/json"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
)

// SQLite's built-in LOWER and LIKE fold only ASCII; the Vietnamese catalog
// needs full Unicode case folding for search.
func init() {
	_ = sqlite.RegisterDeterministicScalarFunction("ulower", 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			if s, ok := args[0].(string); ok {
				return strings.ToLower(s), nil
			}
			return args[0], nil
		})
}

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed a small sample catalog if the store is empty.
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products
CREATE TABLE IF NOT EXISTS products(
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
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_address TEXT NOT NULL DEFAULT '',
  note TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new','confirmed','cancelled')),
  total_amount NUMERIC NOT NULL CHECK (total_amount >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Order line items. line_no keys the row so the same product may appear
-- on multiple lines of one order.
CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  line_no INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, line_no)
);

-- Contact inbox
CREATE TABLE IF NOT EXISTS contacts(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  message TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts(created_at);

-- Users & sessions (admin back office)
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- value of the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

type seedProduct struct {
	Name        string
	Slug        string
	Price       string
	Images      []string
	Tags        []string
	Description string
}

var sampleCatalog = []seedProduct{
	{
		Name:  "Móc khóa gấu bông mini",
		Slug:  "moc-khoa-gau-bong-mini",
		Price: "45000",
		Images: []string{
			"https://picsum.photos/400/400?random=1",
			"https://picsum.photos/400/400?random=2",
		},
		Tags:        []string{"móc khóa", "gấu bông", "mini", "handmade"},
		Description: "Móc khóa gấu bông mini được làm thủ công từ len cao cấp, mềm mại và đáng yêu.",
	},
	{
		Name:  "Gấu bông len trung bình",
		Slug:  "gau-bong-len-trung-binh",
		Price: "120000",
		Images: []string{
			"https://picsum.photos/400/400?random=4",
			"https://picsum.photos/400/400?random=5",
		},
		Tags:        []string{"gấu bông", "len", "trung bình", "handmade", "quà tặng"},
		Description: "Gấu bông len kích thước trung bình, cao khoảng 20cm, móc thủ công tỉ mỉ.",
	},
	{
		Name:  "Móc khóa hoa tulip",
		Slug:  "moc-khoa-hoa-tulip",
		Price: "35000",
		Images: []string{
			"https://picsum.photos/400/400?random=6",
		},
		Tags:        []string{"móc khóa", "hoa", "tulip", "handmade"},
		Description: "Móc khóa hoa tulip xinh xắn, móc thủ công từ len nhiều màu sắc.",
	},
	{
		Name:  "Gấu bông len lớn",
		Slug:  "gau-bong-len-lon",
		Price: "200000",
		Images: []string{
			"https://picsum.photos/400/400?random=8",
			"https://picsum.photos/400/400?random=9",
			"https://picsum.photos/400/400?random=10",
		},
		Tags:        []string{"gấu bông", "len", "lớn", "handmade", "quà tặng"},
		Description: "Gấu bông len kích thước lớn, cao khoảng 35cm. Chất liệu len cao cấp, mềm mại.",
	},
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting sample catalog")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range sampleCatalog {
		images, _ := json.Marshal(p.Images)
		tags, _ := json.Marshal(p.Tags)
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO products(id, name, slug, price, images_json, tags_json, description)
			VALUES(?,?,?,?,?,?,?)
		`, uuid.NewString(), p.Name, p.Slug, price, string(images), string(tags), p.Description); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// EnsureAdmin creates or updates the back-office admin account. A blank
// password skips the bootstrap so no default credential ever exists.
func EnsureAdmin(db *sqlx.DB, email, password string) error {
	if password == "" {
		log.Println("[seed] ADMIN_PASSWORD not set; skipping admin bootstrap")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id, email, name, password_hash, role)
		VALUES(?,?,?,?,'ADMIN')
		ON CONFLICT(email) DO UPDATE SET password_hash=excluded.password_hash
	`, uuid.NewString(), email, "Admin", string(hash))
	return err
}
