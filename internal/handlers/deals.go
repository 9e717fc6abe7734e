package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoopan/compare-service/internal/engine"
)

// HotDeal represents a product cheaper at the home store than at the worst
// neighbor
type HotDeal struct {
	EAN            string  `json:"ean"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Image          *string `json:"image,omitempty"`
	HomePrice      float64 `json:"homePrice"`
	NeighborPrice  float64 `json:"neighborPrice"`
	SavingsPercent int     `json:"savingsPercent"`
	SavingsAmount  float64 `json:"savingsAmount"`
}

// HotDealsResponse represents the hot deal scan result
type HotDealsResponse struct {
	Deals []HotDeal `json:"deals"`
}

// ZonePromo represents a zone-wide promotion
type ZonePromo struct {
	EAN            string    `json:"ean"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Image          *string   `json:"image,omitempty"`
	Price          float64   `json:"price"`
	OldPrice       float64   `json:"oldPrice"`
	SavingsPercent int       `json:"savingsPercent"`
	StoreName      string    `json:"storeName"`
	DistanceKm     float64   `json:"distanceKm"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ZonePromosResponse represents the zone promo scan result
type ZonePromosResponse struct {
	Promos []ZonePromo `json:"promos"`
}

// GetHotDeals handles hot deal detection around a store
// GET /internal/deals/hot/:storeRef?limit=6
func GetHotDeals(c *gin.Context) {
	storeRef := c.Param("storeRef")

	limit := 0 // all
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	deals, err := dealDetector.HotDeals(c.Request.Context(), storeRef, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := HotDealsResponse{Deals: make([]HotDeal, len(deals))}
	for i, d := range deals {
		response.Deals[i] = HotDeal{
			EAN:            d.EAN,
			Name:           d.Name,
			Category:       d.Category,
			Image:          d.Image,
			HomePrice:      d.HomePrice,
			NeighborPrice:  d.NeighborPrice,
			SavingsPercent: d.SavingsPercent,
			SavingsAmount:  d.SavingsAmount,
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetZonePromos handles zone promo detection around a store
// GET /internal/promos/:storeRef?fresh=false
func GetZonePromos(c *gin.Context) {
	storeRef := c.Param("storeRef")
	ctx := c.Request.Context()

	var promos []engine.ZonePromo
	var err error
	if c.Query("fresh") == "true" {
		promos, err = dealDetector.ZonePromosFresh(ctx, storeRef)
	} else {
		promos, err = dealDetector.ZonePromos(ctx, storeRef)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := ZonePromosResponse{Promos: make([]ZonePromo, len(promos))}
	for i, p := range promos {
		response.Promos[i] = ZonePromo{
			EAN:            p.EAN,
			Name:           p.Name,
			Category:       p.Category,
			Image:          p.Image,
			Price:          p.Price,
			OldPrice:       p.OldPrice,
			SavingsPercent: p.SavingsPercent,
			StoreName:      p.StoreName,
			DistanceKm:     p.Distance,
			UpdatedAt:      p.UpdatedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}
