package database

import (
	"time"
)

// Store represents a physical store location
type Store struct {
	ID            string     `json:"id"`              // Portal store code
	Name          string     `json:"name"`            // Display name
	NoPL          *string    `json:"no_pl"`           // Alternate portal identifier
	NoPR          *string    `json:"no_pr"`           // Alternate portal identifier
	Latitude      *float64   `json:"latitude"`        // Null when not geocoded yet
	Longitude     *float64   `json:"longitude"`       // Null when not geocoded yet
	LastScrapedAt *time.Time `json:"last_scraped_at"` // Freshness marker from ingestion
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Product represents a catalog product, keyed by EAN
type Product struct {
	EAN       string    `json:"ean"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceObservation is the current price of a product at one store
type PriceObservation struct {
	ProductEAN string    `json:"product_ean"` // FK to products.ean
	StoreID    string    `json:"store_id"`    // FK to stores.id
	Value      float64   `json:"value"`       // Current shelf price in euros
	Promo      *float64  `json:"promo"`       // Crossed-out reference price, promo signal when > value
	UpdatedAt  time.Time `json:"updated_at"`
}

// Schema is the DDL for the catalog tables. Applied by tests and by the
// cli migrate command; production migrations run out of band.
const Schema = `
CREATE TABLE IF NOT EXISTS stores (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL DEFAULT '',
    no_pl           TEXT,
    no_pr           TEXT,
    latitude        DOUBLE PRECISION,
    longitude       DOUBLE PRECISION,
    last_scraped_at TIMESTAMPTZ,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_stores_no_pl ON stores (no_pl);
CREATE INDEX IF NOT EXISTS idx_stores_no_pr ON stores (no_pr);

CREATE TABLE IF NOT EXISTS products (
    ean        TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    category   TEXT,
    image_url  TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products (lower(name));

CREATE TABLE IF NOT EXISTS prices (
    product_ean TEXT NOT NULL REFERENCES products (ean) ON DELETE CASCADE,
    store_id    TEXT NOT NULL REFERENCES stores (id) ON DELETE CASCADE,
    value       DOUBLE PRECISION NOT NULL CHECK (value >= 0),
    promo       DOUBLE PRECISION,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (product_ean, store_id)
);
CREATE INDEX IF NOT EXISTS idx_prices_store ON prices (store_id);
`
