package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoopan/compare-service/internal/engine"
	"github.com/yoopan/compare-service/internal/matching"
)

// Ingredient is one free-text recipe line
type Ingredient struct {
	Term     string `json:"term" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// MatchRequest represents the recipe ingredient matching request
type MatchRequest struct {
	StoreRef    string       `json:"storeRef" binding:"required"`
	Ingredients []Ingredient `json:"ingredients" binding:"required,max=50"`
}

// MatchCandidate is one ranked product match
type MatchCandidate struct {
	EAN      string   `json:"ean"`
	Name     string   `json:"name"`
	Image    *string  `json:"image,omitempty"`
	Price    float64  `json:"price"`
	Promo    *float64 `json:"promo,omitempty"`
	HasPromo bool     `json:"hasPromo"`
	Brand    string   `json:"brand"`
}

// IngredientMatch is the ranked candidate list for one ingredient
type IngredientMatch struct {
	Term       string           `json:"term"`
	Quantity   int              `json:"quantity"`
	Candidates []MatchCandidate `json:"candidates"`
}

// MatchResponse represents the full multi-term match result
type MatchResponse struct {
	Matches []IngredientMatch `json:"matches"`
}

// MatchIngredients handles recipe ingredient matching
// POST /internal/recipes/match
func MatchIngredients(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingredients := make([]matching.Ingredient, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		ingredients[i] = matching.Ingredient{Term: ing.Term, Quantity: ing.Quantity}
	}

	matches, err := ingredientMatch.Match(c.Request.Context(), req.StoreRef, ingredients)
	if err != nil {
		// All terms share the store, so an unknown store fails the call.
		if errors.Is(err, engine.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := MatchResponse{Matches: make([]IngredientMatch, len(matches))}
	for i, m := range matches {
		im := IngredientMatch{
			Term:       m.Term,
			Quantity:   m.Quantity,
			Candidates: make([]MatchCandidate, len(m.Candidates)),
		}
		for j, cand := range m.Candidates {
			im.Candidates[j] = MatchCandidate{
				EAN:      cand.EAN,
				Name:     cand.Name,
				Image:    cand.Image,
				Price:    cand.Price,
				Promo:    cand.Promo,
				HasPromo: cand.HasPromo,
				Brand:    cand.Brand,
			}
		}
		response.Matches[i] = im
	}

	c.JSON(http.StatusOK, response)
}
