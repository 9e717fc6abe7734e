package engine

import (
	"math"
	"sort"
)

// HaversineKm calculates the great-circle distance between two points in
// kilometers. Total over finite inputs; callers filter out stores without
// coordinates before ranking, this function does not special-case them.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0 // Earth radius km
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// sortByDistance orders ranked stores ascending by distance. The sort is
// stable: stores at equal distance keep their catalog order.
func sortByDistance(stores []RankedStore) {
	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].Distance < stores[j].Distance
	})
}
