// Package geo resolves a device position to the nearest registered office.
//
// Distances use a planar approximation: the coordinate delta in degrees is
// scaled by 111 km per degree on both axes, without correcting longitude for
// latitude. Offices only exist inside a small regional box, where the error is
// well below the 500 m check-in radius, and changing the formula would change
// which office is picked near the edges of that box.
package geo

import (
	"fmt"
	"math"
)

// MetersPerDegree is the planar scale applied to coordinate deltas.
const MetersPerDegree = 111000.0

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type OfficeLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Point returns the office coordinates as a GeoPoint.
func (o OfficeLocation) Point() GeoPoint {
	return GeoPoint{Latitude: o.Latitude, Longitude: o.Longitude}
}

// BoundingBox is an inclusive latitude/longitude rectangle.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// AllowedRegion is the coarse pre-filter applied before any distance math.
var AllowedRegion = BoundingBox{MinLat: 15.0, MaxLat: 17.0, MinLon: 79.0, MaxLon: 81.0}

func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat &&
		p.Longitude >= b.MinLon && p.Longitude <= b.MaxLon
}

// Resolution is the outcome of Resolve. Office is nil and DistanceMeters is
// +Inf when the point is outside the box or no office lies inside it.
type Resolution struct {
	Office         *OfficeLocation
	DistanceMeters float64
}

// Found reports whether an office was matched.
func (r Resolution) Found() bool {
	return r.Office != nil
}

// Resolver finds the nearest office. It holds no mutable state and is safe for
// concurrent use.
type Resolver struct {
	box     BoundingBox
	offices []OfficeLocation
}

// NewResolver copies offices so later changes to the caller's slice cannot
// affect resolution.
func NewResolver(box BoundingBox, offices []OfficeLocation) *Resolver {
	table := make([]OfficeLocation, len(offices))
	copy(table, offices)
	return &Resolver{box: box, offices: table}
}

// Offices returns the office table in resolution order.
func (r *Resolver) Offices() []OfficeLocation {
	out := make([]OfficeLocation, len(r.offices))
	copy(out, r.offices)
	return out
}

// Resolve returns the nearest in-box office to point. Ties go to the office
// that appears first in the table.
func (r *Resolver) Resolve(point GeoPoint) Resolution {
	notFound := Resolution{DistanceMeters: math.Inf(1)}
	if !r.box.Contains(point) {
		return notFound
	}

	nearest := -1
	shortest := math.Inf(1)
	for i, office := range r.offices {
		if !r.box.Contains(office.Point()) {
			continue
		}
		d := PlanarDistance(point, office.Point())
		if d < shortest {
			shortest = d
			nearest = i
		}
	}

	if nearest < 0 {
		return notFound
	}

	office := r.offices[nearest]
	return Resolution{Office: &office, DistanceMeters: shortest}
}

// PlanarDistance approximates the distance in meters between a and b.
func PlanarDistance(a, b GeoPoint) float64 {
	dLat := a.Latitude - b.Latitude
	dLon := a.Longitude - b.Longitude
	return math.Sqrt(dLat*dLat+dLon*dLon) * MetersPerDegree
}

// FormatDistance renders a distance for user feedback.
func FormatDistance(meters float64) string {
	if math.IsInf(meters, 1) {
		return "Out of range"
	}
	if meters < 1000 {
		return fmt.Sprintf("%d meters", int64(math.Round(meters)))
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}
