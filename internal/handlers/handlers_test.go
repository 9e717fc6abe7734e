package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoopan/compare-service/internal/engine"
	"github.com/yoopan/compare-service/internal/matching"
)

// fakeCatalog is an in-memory Catalog double for handler tests. It honors
// the ascending-price contract by requiring fixtures to be pre-sorted.
type fakeCatalog struct {
	stores   []engine.Store
	products []engine.PricedProduct
}

func (f *fakeCatalog) StoreByRef(_ context.Context, refs []string) (*engine.Store, error) {
	for i := range f.stores {
		s := &f.stores[i]
		for _, ref := range refs {
			if s.ID == ref ||
				(s.NoPL != nil && *s.NoPL == ref) ||
				(s.NoPR != nil && *s.NoPR == ref) {
				return s, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeCatalog) StoresWithCoordinates(_ context.Context) ([]engine.Store, error) {
	var out []engine.Store
	for _, s := range f.stores {
		if s.HasCoordinates() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ProductsByEAN(_ context.Context, eans []string) ([]engine.PricedProduct, error) {
	wanted := make(map[string]bool, len(eans))
	for _, e := range eans {
		wanted[e] = true
	}
	var out []engine.PricedProduct
	for _, p := range f.products {
		if wanted[p.EAN] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) SearchProducts(_ context.Context, query string, zoneStoreIDs []string, limit int) ([]engine.PricedProduct, error) {
	var out []engine.PricedProduct
	for _, p := range f.products {
		if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			continue
		}
		if len(zoneStoreIDs) > 0 {
			restricted := restrictPrices(p, zoneStoreIDs)
			if len(restricted.Prices) == 0 {
				continue
			}
			p = restricted
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCatalog) ProductsSoldAt(_ context.Context, homeStoreID string, zoneStoreIDs []string, limit int) ([]engine.PricedProduct, error) {
	var out []engine.PricedProduct
	for _, p := range f.products {
		if !pricedAt(p, homeStoreID) {
			continue
		}
		out = append(out, restrictPrices(p, zoneStoreIDs))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCatalog) ProductsPricedIn(_ context.Context, zoneStoreIDs []string) ([]engine.PricedProduct, error) {
	var out []engine.PricedProduct
	for _, p := range f.products {
		restricted := restrictPrices(p, zoneStoreIDs)
		if len(restricted.Prices) > 0 {
			out = append(out, restricted)
		}
	}
	return out, nil
}

func (f *fakeCatalog) SearchPricedAt(_ context.Context, term, storeID string, limit int) ([]engine.PricedProduct, error) {
	var out []engine.PricedProduct
	for _, p := range f.products {
		if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			continue
		}
		restricted := restrictPrices(p, []string{storeID})
		if len(restricted.Prices) == 0 {
			continue
		}
		out = append(out, restricted)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func restrictPrices(p engine.PricedProduct, storeIDs []string) engine.PricedProduct {
	allowed := make(map[string]bool, len(storeIDs))
	for _, id := range storeIDs {
		allowed[id] = true
	}
	out := engine.PricedProduct{Product: p.Product}
	for _, price := range p.Prices {
		if allowed[price.StoreID] {
			out.Prices = append(out.Prices, price)
		}
	}
	return out
}

func pricedAt(p engine.PricedProduct, storeID string) bool {
	for _, price := range p.Prices {
		if price.StoreID == storeID {
			return true
		}
	}
	return false
}

func f64(v float64) *float64 { return &v }

// newTestCatalog builds three geocoded stores in a tight cluster and a
// small priced catalog around them.
func newTestCatalog() *fakeCatalog {
	now := time.Now()
	return &fakeCatalog{
		stores: []engine.Store{
			{ID: "07521", Name: "Leclerc Centre", Lat: f64(45.0), Lng: f64(5.0)},
			{ID: "07522", Name: "Carrefour Nord", Lat: f64(45.01), Lng: f64(5.0)},
			{ID: "07523", Name: "Auchan Sud", Lat: f64(45.02), Lng: f64(5.0)},
		},
		products: []engine.PricedProduct{
			{
				Product: engine.Product{EAN: "3017620422003", Name: "Pate a tartiner noisettes"},
				Prices: []engine.Price{
					{StoreID: "07522", StoreName: "Carrefour Nord", Value: 3.20, UpdatedAt: now, Lat: f64(45.01), Lng: f64(5.0)},
					{StoreID: "07521", StoreName: "Leclerc Centre", Value: 3.50, UpdatedAt: now, Lat: f64(45.0), Lng: f64(5.0)},
					{StoreID: "07523", StoreName: "Auchan Sud", Value: 3.80, UpdatedAt: now, Lat: f64(45.02), Lng: f64(5.0)},
				},
			},
			{
				Product: engine.Product{EAN: "3560070462414", Name: "Beurre doux plaquette 250g"},
				Prices: []engine.Price{
					{StoreID: "07521", StoreName: "Leclerc Centre", Value: 2.10, UpdatedAt: now, Lat: f64(45.0), Lng: f64(5.0)},
					{StoreID: "07522", StoreName: "Carrefour Nord", Value: 2.40, UpdatedAt: now, Lat: f64(45.01), Lng: f64(5.0)},
				},
			},
		},
	}
}

func setupRouter(t *testing.T, catalog Catalog) *gin.Engine {
	t.Helper()

	cfg := engine.Defaults()
	require.NoError(t, cfg.Validate())
	InitComponents(catalog, cfg, matching.Defaults())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/internal/zone/:storeRef", GetZone)
	router.GET("/internal/products/search", SearchProducts)
	router.GET("/internal/products", GetProducts)
	router.POST("/internal/basket/compare", CompareBasket)
	router.POST("/internal/recipes/match", MatchIngredients)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetZoneHappyPath(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	w := getPath(t, router, "/internal/zone/07521?size=3")
	assert.Equal(t, http.StatusOK, w.Code)

	var response ZoneResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Stores, 3)
	assert.Equal(t, "07521", response.Home.ID)
	assert.True(t, response.Stores[0].IsSeed)
	assert.False(t, response.Stores[1].IsSeed)
	// Neighbors come back nearest first.
	assert.Equal(t, "07522", response.Stores[1].ID)
	assert.Equal(t, "07523", response.Stores[2].ID)
	assert.Greater(t, response.Stores[2].DistanceKm, response.Stores[1].DistanceKm)
}

func TestGetZoneUnknownStore(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	w := getPath(t, router, "/internal/zone/99999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "store_not_found", response["error"])
}

func TestGetZoneInvalidSize(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	w := getPath(t, router, "/internal/zone/07521?size=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = getPath(t, router, "/internal/zone/07521?size=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchProductsScopedToZone(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	w := getPath(t, router, "/internal/products/search?q=beurre&storeRef=07521")
	assert.Equal(t, http.StatusOK, w.Code)

	var response ProductsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.True(t, response.StoreFound)
	require.Len(t, response.Products, 1)
	product := response.Products[0]
	assert.Equal(t, "3560070462414", product.EAN)
	assert.True(t, product.Available)
	assert.Equal(t, 2.10, product.BestPrice)
	assert.Equal(t, "Leclerc Centre", product.StoreLabel)
	assert.True(t, product.IsHomeStore)
}

func TestSearchProductsUnknownStoreDegrades(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	w := getPath(t, router, "/internal/products/search?q=beurre&storeRef=99999")
	assert.Equal(t, http.StatusOK, w.Code)

	var response ProductsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.False(t, response.StoreFound)
	assert.Empty(t, response.Products)
}

func TestSearchProductsMissingQuery(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	w := getPath(t, router, "/internal/products/search?storeRef=07521")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductsFiltersInvalidCodes(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	// One valid code mixed with garbage still resolves.
	w := getPath(t, router, "/internal/products?eans=3017620422003,notanean&storeRef=07521")
	assert.Equal(t, http.StatusOK, w.Code)

	var response ProductsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Products, 1)
	assert.Equal(t, "3017620422003", response.Products[0].EAN)

	// All-garbage input is a client error.
	w = getPath(t, router, "/internal/products?eans=notanean")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareBasketHappyPath(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	reqBody := CompareRequest{
		Items: []CartItem{
			{
				EAN:      "3017620422003",
				Name:     "Pate a tartiner",
				Quantity: 2,
				Offers: []CartOffer{
					{StoreID: "07521", StoreName: "Leclerc Centre", Price: 3.50},
					{StoreID: "07522", StoreName: "Carrefour Nord", Price: 3.20},
				},
			},
			{
				EAN:      "3560070462414",
				Name:     "Beurre doux",
				Quantity: 1,
				Offers: []CartOffer{
					{StoreID: "07521", StoreName: "Leclerc Centre", Price: 2.10},
				},
			},
		},
	}

	w := postJSON(t, router, "/internal/basket/compare", reqBody)
	assert.Equal(t, http.StatusOK, w.Code)

	var response CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Totals, 2)
	assert.Equal(t, 2, response.ItemCount)
	require.NotNil(t, response.Cheapest)

	// Leclerc carries both items: 2*3.50 + 2.10 = 9.10.
	// Carrefour misses the butter and substitutes its mean price 2.10,
	// landing at 2*3.20 + 2.10 = 8.50, which wins on price.
	assert.Equal(t, "Carrefour Nord", response.Cheapest.StoreName)
	assert.InDelta(t, 8.50, response.Cheapest.Total, 0.001)
	assert.Equal(t, 1, response.Cheapest.MissingCount)

	// Leclerc is the complete-basket alternative.
	require.NotNil(t, response.BestAlternative)
	assert.Equal(t, "Leclerc Centre", response.BestAlternative.StoreName)
	assert.Equal(t, 0, response.BestAlternative.MissingCount)

	assert.InDelta(t, 0.60, response.Savings, 0.001)
}

func TestCompareBasketEmptyCart(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	w := postJSON(t, router, "/internal/basket/compare", CompareRequest{Items: []CartItem{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareBasketMissingBody(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	req, err := http.NewRequest("POST", "/internal/basket/compare", bytes.NewBufferString("{"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatchIngredientsHappyPath(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	reqBody := MatchRequest{
		StoreRef: "07521",
		Ingredients: []Ingredient{
			{Term: "beurre", Quantity: 1},
			{Term: "introuvable", Quantity: 2},
		},
	}

	w := postJSON(t, router, "/internal/recipes/match", reqBody)
	assert.Equal(t, http.StatusOK, w.Code)

	var response MatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Matches, 2)
	assert.Equal(t, "beurre", response.Matches[0].Term)
	require.Len(t, response.Matches[0].Candidates, 1)
	candidate := response.Matches[0].Candidates[0]
	assert.Equal(t, "3560070462414", candidate.EAN)
	assert.Equal(t, 2.10, candidate.Price)
	assert.Equal(t, "Beurre", candidate.Brand)

	// Unmatched terms still come back, with no candidates.
	assert.Equal(t, "introuvable", response.Matches[1].Term)
	assert.Empty(t, response.Matches[1].Candidates)
}

func TestMatchIngredientsUnknownStore(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	reqBody := MatchRequest{
		StoreRef:    "99999",
		Ingredients: []Ingredient{{Term: "beurre", Quantity: 1}},
	}

	w := postJSON(t, router, "/internal/recipes/match", reqBody)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "store_not_found", response["error"])
}

func TestMatchIngredientsValidation(t *testing.T) {
	router := setupRouter(t, newTestCatalog())

	w := postJSON(t, router, "/internal/recipes/match", MatchRequest{StoreRef: "07521"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/internal/recipes/match", MatchRequest{
		Ingredients: []Ingredient{{Term: "beurre"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
