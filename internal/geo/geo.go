// Package geo computes geodesic distance and capture eligibility.
// Pure functions, no I/O.
package geo

import (
	"fmt"
	"math"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// Result is the outcome of a capture eligibility check.
type Result struct {
	OK             bool
	DistanceMeters float64
	// Unbounded is set when the prize has no stored location and the proximity
	// check was skipped. Callers must log this; it is a deliberate fallback,
	// not a silent pass.
	Unbounded bool
}

// Validate rejects coordinates outside [-90,90]/[-180,180] or non-finite values.
// Upstream request validation should have caught these already; reaching this
// error means a contract violation, so it is not clamped or recovered.
func Validate(p domain.GeoPoint) error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return fmt.Errorf("%w: non-finite coordinate (%v, %v)", domain.ErrInvalidCoordinate, p.Lat, p.Lng)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", domain.ErrInvalidCoordinate, p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude %v", domain.ErrInvalidCoordinate, p.Lng)
	}
	return nil
}

// Distance returns the haversine great-circle distance between a and b in meters.
func Distance(a, b domain.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// CanCapture checks whether userLoc is within maxRadius meters of prizeLoc.
// A nil prizeLoc yields an unbounded pass (see Result.Unbounded).
func CanCapture(userLoc domain.GeoPoint, prizeLoc *domain.GeoPoint, maxRadius float64) (Result, error) {
	if err := Validate(userLoc); err != nil {
		return Result{}, err
	}
	if prizeLoc == nil {
		return Result{OK: true, Unbounded: true}, nil
	}
	if err := Validate(*prizeLoc); err != nil {
		return Result{}, err
	}

	d := Distance(userLoc, *prizeLoc)
	return Result{OK: d <= maxRadius, DistanceMeters: d}, nil
}
