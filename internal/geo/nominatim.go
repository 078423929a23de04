package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultNominatimURL is the public OpenStreetMap geocoding endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimProvider geocodes addresses with the OpenStreetMap Nominatim
// search API (format=jsonv2, addressdetails=1).
type NominatimProvider struct {
	baseURL   string
	userAgent string
	limit     int
	client    *http.Client
}

// NewNominatimProvider constructs a provider for baseURL.
// Nominatim's usage policy requires an identifying User-Agent.
func NewNominatimProvider(baseURL, userAgent string, timeout time.Duration) *NominatimProvider {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		limit:     3,
		client:    &http.Client{Timeout: timeout},
	}
}

// nominatimPlace is the subset of a jsonv2 search result we read.
type nominatimPlace struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	CountryCode string `json:"country_code"`
}

// Geocode queries /search and returns the places in the order Nominatim ranked them.
func (p *NominatimProvider) Geocode(ctx context.Context, address string) ([]Candidate, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(p.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geo.NominatimProvider.Geocode: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo.NominatimProvider.Geocode: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo.NominatimProvider.Geocode: unexpected status %d", res.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(res.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("geo.NominatimProvider.Geocode: decode: %w", err)
	}

	candidates := make([]Candidate, 0, len(places))
	for _, pl := range places {
		c, err := pl.candidate()
		if err != nil {
			return nil, fmt.Errorf("geo.NominatimProvider.Geocode: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// candidate converts a place into a Candidate. Nominatim sends coordinates
// as strings and spreads the locality over city, town and village.
func (pl nominatimPlace) candidate() (Candidate, error) {
	lat, err := strconv.ParseFloat(pl.Lat, 64)
	if err != nil {
		return Candidate{}, fmt.Errorf("parse lat %q: %w", pl.Lat, err)
	}
	lon, err := strconv.ParseFloat(pl.Lon, 64)
	if err != nil {
		return Candidate{}, fmt.Errorf("parse lon %q: %w", pl.Lon, err)
	}

	city := pl.Address.City
	if city == "" {
		city = pl.Address.Town
	}
	if city == "" {
		city = pl.Address.Village
	}

	return Candidate{
		Longitude:        lon,
		Latitude:         lat,
		FormattedAddress: pl.DisplayName,
		StreetName:       pl.Address.Road,
		City:             city,
		State:            pl.Address.State,
		Zipcode:          pl.Address.Postcode,
		CountryCode:      strings.ToUpper(pl.Address.CountryCode),
	}, nil
}
