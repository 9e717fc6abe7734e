package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoopan/compare-service/internal/engine"
)

// CartOffer is one store's offer attached to a cart item
type CartOffer struct {
	StoreID   string   `json:"storeId"`
	StoreName string   `json:"storeName" binding:"required"`
	Price     float64  `json:"price" binding:"min=0"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Distance  float64  `json:"distance,omitempty"`
}

// CartItem is one basket line with its offer snapshot
type CartItem struct {
	EAN      string      `json:"ean" binding:"required"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity" binding:"min=0"`
	Offers   []CartOffer `json:"offers"`
}

// CompareRequest represents the basket comparison request
type CompareRequest struct {
	Items []CartItem `json:"items" binding:"required,max=100"`
}

// MissingItem is a basket line a store does not carry
type MissingItem struct {
	EAN            string  `json:"ean"`
	Name           string  `json:"name"`
	EstimatedPrice float64 `json:"estimatedPrice"`
}

// StoreTotal is one store's projected basket total
type StoreTotal struct {
	StoreName    string        `json:"storeName"`
	Total        float64       `json:"total"`
	DistanceKm   float64       `json:"distanceKm"`
	MissingCount int           `json:"missingCount"`
	Missing      []MissingItem `json:"missing,omitempty"`
}

// CompareResponse represents the ranked basket comparison
type CompareResponse struct {
	Totals          []StoreTotal `json:"totals"`
	Cheapest        *StoreTotal  `json:"cheapest"`
	BestAlternative *StoreTotal  `json:"bestAlternative,omitempty"`
	Savings         float64      `json:"savings"`
	ItemCount       int          `json:"itemCount"`
}

// CompareBasket handles basket comparison
// POST /internal/basket/compare
func CompareBasket(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]engine.CartItem, len(req.Items))
	for i, item := range req.Items {
		offers := make([]engine.Offer, len(item.Offers))
		for j, o := range item.Offers {
			offers[j] = engine.Offer{
				StoreID:   o.StoreID,
				StoreName: o.StoreName,
				Price:     o.Price,
				Lat:       o.Latitude,
				Lng:       o.Longitude,
				Distance:  o.Distance,
			}
		}
		items[i] = engine.CartItem{
			EAN:      item.EAN,
			Name:     item.Name,
			Quantity: item.Quantity,
			Offers:   offers,
		}
	}

	result := basketComparator.Compare(items)
	if result == nil {
		// Empty cart or no offers at all: well-defined empty comparison.
		c.JSON(http.StatusOK, CompareResponse{Totals: []StoreTotal{}})
		return
	}

	response := CompareResponse{
		Totals:    make([]StoreTotal, len(result.Totals)),
		Savings:   result.Savings,
		ItemCount: result.ItemCount,
	}
	for i, st := range result.Totals {
		response.Totals[i] = toStoreTotal(st)
	}
	cheapest := toStoreTotal(result.Cheapest)
	response.Cheapest = &cheapest
	if result.BestAlternative != nil {
		alt := toStoreTotal(*result.BestAlternative)
		response.BestAlternative = &alt
	}

	c.JSON(http.StatusOK, response)
}

func toStoreTotal(st engine.StoreTotal) StoreTotal {
	out := StoreTotal{
		StoreName:    st.StoreName,
		Total:        st.Total,
		DistanceKm:   st.Distance,
		MissingCount: st.MissingCount,
	}
	for _, m := range st.Missing {
		out.Missing = append(out.Missing, MissingItem{
			EAN:            m.EAN,
			Name:           m.Name,
			EstimatedPrice: m.EstimatedPrice,
		})
	}
	return out
}
