package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean earth radius used by both the Go and SQL distance.
const EarthRadiusMeters = 6371008.8

// BoundaryToleranceMeters absorbs float error so a point placed exactly on the
// radius is inside it.
const BoundaryToleranceMeters = 0.001

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DistanceMeters is the haversine great-circle distance between a and b.
func DistanceMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func Within(origin, p Point, radiusMeters float64) bool {
	return DistanceMeters(origin, p) <= radiusMeters+BoundaryToleranceMeters
}

// KmToMeters converts a search radius in km.
func KmToMeters(km int) float64 {
	return float64(km) * 1000
}

// WithinSQL renders the same predicate as Within for Postgres. latCol/lonCol
// name the point columns; latArg, lonArg and radiusArg are placeholder indexes.
func WithinSQL(latCol, lonCol string, latArg, lonArg, radiusArg int) string {
	return fmt.Sprintf(
		`(2 * %[6]f * asin(least(1, sqrt(
			power(sin(radians(%[1]s - $%[3]d::float8) / 2), 2) +
			cos(radians($%[3]d::float8)) * cos(radians(%[1]s)) * power(sin(radians(%[2]s - $%[4]d::float8) / 2), 2)
		)))) <= $%[5]d::float8 + %[7]f`,
		latCol, lonCol, latArg, lonArg, radiusArg, EarthRadiusMeters, BoundaryToleranceMeters,
	)
}
