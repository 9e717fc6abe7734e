package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoopan/compare-service/internal/engine"
)

// Catalog is the pgx-backed read-only query layer consumed by the engine
// and the ingredient matcher.
type Catalog struct {
	pool func() *pgxpool.Pool
}

// NewCatalog creates a catalog bound to the package connection pool.
func NewCatalog() *Catalog {
	return &Catalog{pool: Pool}
}

// NewCatalogFromPool creates a catalog bound to an explicit pool. Used by
// tests that manage their own database lifecycle.
func NewCatalogFromPool(p *pgxpool.Pool) *Catalog {
	return &Catalog{pool: func() *pgxpool.Pool { return p }}
}

// StoreByRef finds a store whose id, noPL or noPR matches any of the given
// identifier variants. Returns (nil, nil) when no store matches.
func (c *Catalog) StoreByRef(ctx context.Context, refs []string) (*engine.Store, error) {
	query := `
		SELECT id, name, no_pl, no_pr, latitude, longitude, last_scraped_at
		FROM stores
		WHERE id = ANY($1) OR no_pl = ANY($1) OR no_pr = ANY($1)
		LIMIT 1
	`
	var s engine.Store
	err := c.pool().QueryRow(ctx, query, refs).Scan(
		&s.ID, &s.Name, &s.NoPL, &s.NoPR, &s.Lat, &s.Lng, &s.LastScrapedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying store: %w", err)
	}
	return &s, nil
}

// StoresWithCoordinates lists every store that can be geographically ranked.
func (c *Catalog) StoresWithCoordinates(ctx context.Context) ([]engine.Store, error) {
	query := `
		SELECT id, name, no_pl, no_pr, latitude, longitude, last_scraped_at
		FROM stores
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY id
	`
	rows, err := c.pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying stores: %w", err)
	}
	defer rows.Close()

	var stores []engine.Store
	for rows.Next() {
		var s engine.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.NoPL, &s.NoPR, &s.Lat, &s.Lng, &s.LastScrapedAt); err != nil {
			return nil, fmt.Errorf("error scanning store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// ProductsByEAN fetches the given products with all their price
// observations. Products without any observation still come back, with an
// empty price list.
func (c *Catalog) ProductsByEAN(ctx context.Context, eans []string) ([]engine.PricedProduct, error) {
	query := `
		SELECT p.ean, p.name, p.category, p.image_url,
		       pr.store_id, s.name, pr.value, pr.promo, pr.updated_at, s.latitude, s.longitude
		FROM products p
		LEFT JOIN prices pr ON pr.product_ean = p.ean
		LEFT JOIN stores s ON s.id = pr.store_id
		WHERE p.ean = ANY($1)
		ORDER BY p.ean, pr.value ASC NULLS LAST
	`
	rows, err := c.pool().Query(ctx, query, eans)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()
	return collectPricedProducts(rows)
}

// SearchProducts fetches products whose name contains query, with all their
// price observations. A non-empty zoneStoreIDs restricts the match to
// products priced somewhere in the zone, without restricting the returned
// observations.
func (c *Catalog) SearchProducts(ctx context.Context, query string, zoneStoreIDs []string, limit int) ([]engine.PricedProduct, error) {
	sql := `
		WITH matched AS (
			SELECT ean, name, category, image_url
			FROM products
			WHERE name ILIKE '%' || $1 || '%'
			  AND ($2::text[] IS NULL OR EXISTS (
			        SELECT 1 FROM prices zp
			        WHERE zp.product_ean = products.ean AND zp.store_id = ANY($2)
			  ))
			ORDER BY name, ean
			LIMIT $3
		)
		SELECT m.ean, m.name, m.category, m.image_url,
		       pr.store_id, s.name, pr.value, pr.promo, pr.updated_at, s.latitude, s.longitude
		FROM matched m
		LEFT JOIN prices pr ON pr.product_ean = m.ean
		LEFT JOIN stores s ON s.id = pr.store_id
		ORDER BY m.name, m.ean, pr.value ASC NULLS LAST
	`
	var zone any
	if len(zoneStoreIDs) > 0 {
		zone = zoneStoreIDs
	}
	rows, err := c.pool().Query(ctx, sql, query, zone, limit)
	if err != nil {
		return nil, fmt.Errorf("error searching products: %w", err)
	}
	defer rows.Close()
	return collectPricedProducts(rows)
}

// ProductsSoldAt fetches products that carry a price at homeStoreID, with
// observations restricted to zoneStoreIDs.
func (c *Catalog) ProductsSoldAt(ctx context.Context, homeStoreID string, zoneStoreIDs []string, limit int) ([]engine.PricedProduct, error) {
	query := `
		WITH sold AS (
			SELECT product_ean FROM prices
			WHERE store_id = $1
			ORDER BY product_ean
			LIMIT $3
		)
		SELECT p.ean, p.name, p.category, p.image_url,
		       pr.store_id, s.name, pr.value, pr.promo, pr.updated_at, s.latitude, s.longitude
		FROM sold
		JOIN products p ON p.ean = sold.product_ean
		JOIN prices pr ON pr.product_ean = p.ean AND pr.store_id = ANY($2)
		JOIN stores s ON s.id = pr.store_id
		ORDER BY p.ean, pr.value ASC
	`
	rows, err := c.pool().Query(ctx, query, homeStoreID, zoneStoreIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying home store products: %w", err)
	}
	defer rows.Close()
	return collectPricedProducts(rows)
}

// ProductsPricedIn fetches every product with at least one observation in
// the zone, observations restricted to zoneStoreIDs.
func (c *Catalog) ProductsPricedIn(ctx context.Context, zoneStoreIDs []string) ([]engine.PricedProduct, error) {
	query := `
		SELECT p.ean, p.name, p.category, p.image_url,
		       pr.store_id, s.name, pr.value, pr.promo, pr.updated_at, s.latitude, s.longitude
		FROM products p
		JOIN prices pr ON pr.product_ean = p.ean AND pr.store_id = ANY($1)
		JOIN stores s ON s.id = pr.store_id
		ORDER BY p.ean, pr.value ASC
	`
	rows, err := c.pool().Query(ctx, query, zoneStoreIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying zone products: %w", err)
	}
	defer rows.Close()
	return collectPricedProducts(rows)
}

// SearchPricedAt fetches up to limit products whose name contains term and
// that carry a price at storeID, observations restricted to that store.
func (c *Catalog) SearchPricedAt(ctx context.Context, term, storeID string, limit int) ([]engine.PricedProduct, error) {
	query := `
		SELECT p.ean, p.name, p.category, p.image_url,
		       pr.store_id, s.name, pr.value, pr.promo, pr.updated_at, s.latitude, s.longitude
		FROM products p
		JOIN prices pr ON pr.product_ean = p.ean AND pr.store_id = $2
		JOIN stores s ON s.id = pr.store_id
		WHERE p.name ILIKE '%' || $1 || '%'
		ORDER BY p.ean
		LIMIT $3
	`
	rows, err := c.pool().Query(ctx, query, term, storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("error searching store products: %w", err)
	}
	defer rows.Close()
	return collectPricedProducts(rows)
}

// collectPricedProducts groups joined rows into products with their price
// lists. Rows must arrive ordered by ean so grouping stays contiguous and
// by ascending value so the engine's sorted-prices contract holds.
func collectPricedProducts(rows pgx.Rows) ([]engine.PricedProduct, error) {
	var (
		products []engine.PricedProduct
		index    = make(map[string]int)
	)
	for rows.Next() {
		var (
			p         engine.Product
			storeID   *string
			storeName *string
			value     *float64
			promo     *float64
			updatedAt *time.Time
			lat, lng  *float64
		)
		err := rows.Scan(&p.EAN, &p.Name, &p.Category, &p.ImageURL,
			&storeID, &storeName, &value, &promo, &updatedAt, &lat, &lng)
		if err != nil {
			return nil, fmt.Errorf("error scanning product row: %w", err)
		}

		i, ok := index[p.EAN]
		if !ok {
			products = append(products, engine.PricedProduct{Product: p})
			i = len(products) - 1
			index[p.EAN] = i
		}
		if storeID == nil || value == nil {
			continue // product without observations, LEFT JOIN padding
		}
		price := engine.Price{
			StoreID: *storeID,
			Value:   *value,
			Promo:   promo,
			Lat:     lat,
			Lng:     lng,
		}
		if storeName != nil {
			price.StoreName = *storeName
		}
		if updatedAt != nil {
			price.UpdatedAt = *updatedAt
		}
		products[i].Prices = append(products[i].Prices, price)
	}
	return products, rows.Err()
}
