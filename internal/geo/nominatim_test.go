package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campdir/backend/internal/geo"
)

const nominatimBody = `[
  {
    "lat": "37.7825",
    "lon": "-122.3930",
    "display_name": "185 Berry Street, San Francisco, California, 94107, United States",
    "address": {
      "road": "Berry Street",
      "city": "San Francisco",
      "state": "California",
      "postcode": "94107",
      "country_code": "us"
    }
  },
  {
    "lat": "1.5",
    "lon": "2.5",
    "display_name": "Berry, Somewhere",
    "address": {"village": "Berry", "country_code": "gb"}
  }
]`

func TestNominatimProvider_Geocode(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nominatimBody))
	}))
	defer srv.Close()

	p := geo.NewNominatimProvider(srv.URL+"/", "campdir-test/1.0", 5*time.Second)

	got, err := p.Geocode(context.Background(), "185 Berry St, San Francisco")

	require.NoError(t, err)
	assert.Equal(t, "185 Berry St, San Francisco", gotQuery)
	assert.Equal(t, "campdir-test/1.0", gotUA)
	require.Len(t, got, 2)
	assert.Equal(t, geo.Candidate{
		Longitude:        -122.3930,
		Latitude:         37.7825,
		FormattedAddress: "185 Berry Street, San Francisco, California, 94107, United States",
		StreetName:       "Berry Street",
		City:             "San Francisco",
		State:            "California",
		Zipcode:          "94107",
		CountryCode:      "US",
	}, got[0])
	assert.Equal(t, "Berry", got[1].City, "village is used when city and town are absent")
}

func TestNominatimProvider_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got, err := geo.NewNominatimProvider(srv.URL, "", time.Second).Geocode(context.Background(), "nowhere")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNominatimProvider_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := geo.NewNominatimProvider(srv.URL, "", time.Second).Geocode(context.Background(), "x")

	assert.ErrorContains(t, err, "unexpected status 429")
}

func TestNominatimProvider_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"1"}]`))
	}))
	defer srv.Close()

	_, err := geo.NewNominatimProvider(srv.URL, "", time.Second).Geocode(context.Background(), "x")

	assert.ErrorContains(t, err, "parse lat")
}
