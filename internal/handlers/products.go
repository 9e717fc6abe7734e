package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yoopan/compare-service/internal/engine"
)

// ProductOffer is one store's offer in a product view
type ProductOffer struct {
	StoreID     string  `json:"storeId"`
	StoreName   string  `json:"storeName"`
	Price       float64 `json:"price"`
	DistanceKm  float64 `json:"distanceKm"`
	IsHomeStore bool    `json:"isHomeStore"`
}

// ProductView is the aggregated offer view for one product
type ProductView struct {
	EAN            string         `json:"ean"`
	Name           string         `json:"name"`
	Category       string         `json:"category"`
	Image          *string        `json:"image,omitempty"`
	Available      bool           `json:"available"`
	Offers         []ProductOffer `json:"offers"`
	BestPrice      float64        `json:"bestPrice"`
	WorstPrice     float64        `json:"worstPrice"`
	SavingsPercent int            `json:"savingsPercent"`
	AveragePrice   float64        `json:"averagePrice"`
	StoreLabel     string         `json:"storeLabel"`
	IsHomeStore    bool           `json:"isHomeStore"`
}

// ProductsResponse represents a zone-scoped product listing. StoreFound is
// false when the storeRef query matched no store; products are withheld in
// that case so an unknown code reads as "no results for this store".
type ProductsResponse struct {
	StoreFound bool          `json:"storeFound"`
	Products   []ProductView `json:"products"`
}

// SearchProducts handles zone-scoped product browse
// GET /internal/products/search?q=&storeRef=
func SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	result, err := offerAggregator.SearchProducts(c.Request.Context(), query, c.Query("storeRef"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toProductsResponse(result))
}

// GetProducts handles zone-scoped favorites lookup by product codes
// GET /internal/products?eans=a,b&storeRef=
func GetProducts(c *gin.Context) {
	raw := strings.Split(c.Query("eans"), ",")
	eans := make([]string, 0, len(raw))
	for _, r := range raw {
		if ean := engine.NormalizeEAN(strings.TrimSpace(r)); ean != "" {
			eans = append(eans, ean)
		}
	}
	if len(eans) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eans must contain at least one valid product code"})
		return
	}

	result, err := offerAggregator.ProductsByEAN(c.Request.Context(), eans, c.Query("storeRef"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toProductsResponse(result))
}

func toProductsResponse(result *engine.BrowseResult) ProductsResponse {
	response := ProductsResponse{
		StoreFound: result.StoreFound,
		Products:   make([]ProductView, len(result.Products)),
	}
	for i, p := range result.Products {
		view := ProductView{
			EAN:            p.EAN,
			Name:           p.Name,
			Category:       p.Category,
			Image:          p.Image,
			Available:      p.Available,
			Offers:         make([]ProductOffer, len(p.Offers)),
			BestPrice:      p.BestPrice,
			WorstPrice:     p.WorstPrice,
			SavingsPercent: p.SavingsPercent,
			AveragePrice:   p.AveragePrice,
			StoreLabel:     p.StoreLabel,
			IsHomeStore:    p.IsHomeStore,
		}
		for j, o := range p.Offers {
			view.Offers[j] = ProductOffer{
				StoreID:     o.StoreID,
				StoreName:   o.StoreName,
				Price:       o.Price,
				DistanceKm:  o.Distance,
				IsHomeStore: o.IsHomeStore,
			}
		}
		response.Products[i] = view
	}
	return response
}
