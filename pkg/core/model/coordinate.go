package model

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean radius of the earth which converts the
// great-circle angles into kilometers.
const EarthRadiusKm = 6371.0088

// Coordinate represents a geographical location with a latitude and
// longitude, both in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"` // latitude of the geo-location
	Lon float64 `json:"lon"` // longitude of the geo-location
}

// Validate returns an error if c is not a valid WGS84 coordinate.
func (c Coordinate) Validate() error {
	switch {
	case c.Lat < -90 || c.Lat > 90:
		return fmt.Errorf("latitude %v is out of [-90, 90]", c.Lat)
	case c.Lon < -180 || c.Lon > 180:
		return fmt.Errorf("longitude %v is out of [-180, 180]", c.Lon)
	}
	return nil
}

// DistanceKm returns the great-circle distance between c and o.
func (c Coordinate) DistanceKm(o Coordinate) float64 {
	a := s2.LatLngFromDegrees(c.Lat, c.Lon)
	b := s2.LatLngFromDegrees(o.Lat, o.Lon)
	return a.Distance(b).Radians() * EarthRadiusKm
}
