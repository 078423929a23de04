// Package geo resolves free-text postal addresses into camp locations.
// Resolver is the only type the service layer depends on; Provider
// implementations do the outbound lookup.
package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/campdir/backend/internal/domain"
)

// Candidate is one geocoding result in provider order.
type Candidate struct {
	Longitude        float64
	Latitude         float64
	FormattedAddress string
	StreetName       string
	City             string
	State            string
	Zipcode          string
	CountryCode      string
}

// Provider looks up an address and returns candidate results, best first.
// An empty slice with a nil error means the provider found nothing.
type Provider interface {
	Geocode(ctx context.Context, address string) ([]Candidate, error)
}

// Resolver turns an address into a domain.Location using a Provider.
type Resolver struct {
	provider Provider
}

// NewResolver constructs a Resolver backed by the given Provider.
func NewResolver(p Provider) *Resolver {
	return &Resolver{provider: p}
}

// Resolve returns the remote sentinel for an empty address. Otherwise it
// geocodes the address and builds a Point location from the first candidate.
// Provider errors and empty results wrap domain.ErrUpstream.
func (r *Resolver) Resolve(ctx context.Context, address string) (domain.Location, error) {
	if address == "" {
		return domain.RemoteLocation(), nil
	}

	candidates, err := r.provider.Geocode(ctx, address)
	if err != nil {
		return domain.Location{}, fmt.Errorf("geo.Resolver.Resolve: %w: %v", domain.ErrUpstream, err)
	}
	if len(candidates) == 0 {
		return domain.Location{}, fmt.Errorf("geo.Resolver.Resolve: %w: no results for %q", domain.ErrUpstream, address)
	}

	first := candidates[0]
	return domain.Location{
		Type:             domain.PointType,
		Coordinates:      []float64{first.Longitude, first.Latitude},
		FormattedAddress: first.FormattedAddress,
		Street:           first.StreetName,
		City:             first.City,
		Zipcode:          first.Zipcode,
		Country:          strings.ToUpper(first.CountryCode),
	}, nil
}
