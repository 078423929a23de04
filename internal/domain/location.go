package domain

// RemoteFormattedAddress is the formatted address of the sentinel location
// used for camps without a physical address.
const RemoteFormattedAddress = "Remote"

// PointType is the GeoJSON geometry type of a geocoded location.
const PointType = "Point"

// Location is the resolved form of a camp's postal address.
// A geocoded location carries Type "Point" and Coordinates [lon, lat].
// The remote sentinel carries only FormattedAddress, so it serialises to
// exactly {"formattedAddress":"Remote"}.
type Location struct {
	Type             string    `json:"type,omitempty"`
	Coordinates      []float64 `json:"coordinates,omitempty"`
	FormattedAddress string    `json:"formattedAddress"`
	Street           string    `json:"street,omitempty"`
	City             string    `json:"city,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty"`
}

// RemoteLocation returns the sentinel location for camps with no address.
func RemoteLocation() Location {
	return Location{FormattedAddress: RemoteFormattedAddress}
}

// IsRemote reports whether l has no coordinates.
func (l Location) IsRemote() bool {
	return len(l.Coordinates) != 2
}

// Longitude returns the first coordinate, or 0 for a remote location.
func (l Location) Longitude() float64 {
	if l.IsRemote() {
		return 0
	}
	return l.Coordinates[0]
}

// Latitude returns the second coordinate, or 0 for a remote location.
func (l Location) Latitude() float64 {
	if l.IsRemote() {
		return 0
	}
	return l.Coordinates[1]
}

// GeoPoint is a longitude/latitude pair used for radius searches.
type GeoPoint struct {
	Lon float64
	Lat float64
}
