package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is its own database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Key-value slots (encrypted cart blobs)
CREATE TABLE IF NOT EXISTS kv_slots(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT
);

-- Catalog cache, last successful fetch
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  description TEXT,
  category TEXT NOT NULL,
  image TEXT,
  rating_rate NUMERIC NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  fetched_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_position ON products(position);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

-- Checkout receipts
CREATE TABLE IF NOT EXISTS receipts(
  id TEXT PRIMARY KEY,
  session_id TEXT,
  placed_at TEXT NOT NULL,
  total_items INTEGER NOT NULL,
  total_price NUMERIC NOT NULL,
  total_points INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_receipts_placed_at ON receipts(placed_at);

CREATE TABLE IF NOT EXISTS receipt_items(
  receipt_id TEXT NOT NULL REFERENCES receipts(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  title TEXT NOT NULL,
  category TEXT,
  image TEXT,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  total_price NUMERIC NOT NULL,
  point INTEGER NOT NULL,
  PRIMARY KEY (receipt_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}
