package alerts

import (
	"math"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// haversineKm returns the great-circle distance between two points in
// kilometers.
func haversineKm(a, b models.Location) float64 {
	R := 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return R * c
}

// detourKm measures how far a position strays from the direct start-to-end
// path: the extra distance of going start -> pos -> end over start -> end.
func detourKm(start, pos, end models.Location) float64 {
	direct := haversineKm(start, end)
	via := haversineKm(start, pos) + haversineKm(pos, end)
	return via - direct
}
