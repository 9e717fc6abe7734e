package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yoopan/compare-service/internal/engine"
)

// ZoneStore represents one member of a resolved zone
type ZoneStore struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	DistanceKm float64  `json:"distanceKm"`
	IsSeed     bool     `json:"isSeed"`
}

// ZoneResponse represents a resolved zone
type ZoneResponse struct {
	Home   ZoneStore   `json:"home"`
	Stores []ZoneStore `json:"stores"`
}

// GetZone resolves the zone around a store
// GET /internal/zone/:storeRef?size=4
func GetZone(c *gin.Context) {
	storeRef := c.Param("storeRef")

	size := engineConfig.ZoneSizeBrowse
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a positive integer"})
			return
		}
		size = parsed
	}

	zone, err := zoneResolver.Zone(c.Request.Context(), storeRef, size)
	if err != nil {
		if errors.Is(err, engine.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := ZoneResponse{Stores: make([]ZoneStore, len(zone.Stores))}
	for i, s := range zone.Stores {
		response.Stores[i] = ZoneStore{
			ID:         s.ID,
			Name:       s.Name,
			Latitude:   s.Lat,
			Longitude:  s.Lng,
			DistanceKm: s.Distance,
			IsSeed:     i == 0,
		}
	}
	response.Home = response.Stores[0]

	c.JSON(http.StatusOK, response)
}
