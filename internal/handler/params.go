package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/campdir/backend/internal/domain"
)

// dataResponse wraps a single resource.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination describes the page a list response holds. Next and Prev are
// omitted at either end of the listing.
type Pagination struct {
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
	Total int      `json:"total"`
	Next  *PageRef `json:"next,omitempty"`
	Prev  *PageRef `json:"prev,omitempty"`
}

func pageRef(p *domain.PaginationParams) *PageRef {
	if p == nil {
		return nil
	}
	return &PageRef{Page: p.Page, Limit: p.Limit}
}

// listResponse wraps one page of resources.
type listResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func newListResponse[T any](data []T, p domain.PaginationParams, total int64) listResponse[T] {
	if data == nil {
		data = []T{}
	}
	return listResponse[T]{
		Data:       data,
		Pagination: Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: int(total),
			Next:  pageRef(p.Next(total)),
			Prev:  pageRef(p.Prev()),
		},
	}
}

// pathUUID binds a {name} path segment as a UUID the way generated
// oapi-codegen routers do.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return id, nil
}

// paginationParams binds the optional ?page= and ?limit= query parameters.
func paginationParams(q url.Values) (domain.PaginationParams, error) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return domain.NewPaginationParams(page, limit), nil
}

// campFilter binds ?career= and the ?lon=&lat=&radius_km= radius search.
// A radius search needs all three values.
func campFilter(q url.Values) (domain.CampFilter, error) {
	var (
		career        *string
		lon, lat, rad *float64
	)
	if err := runtime.BindQueryParameter("form", true, false, "career", q, &career); err != nil {
		return domain.CampFilter{}, fmt.Errorf("invalid format for parameter career: %w", err)
	}
	for name, dst := range map[string]**float64{"lon": &lon, "lat": &lat, "radius_km": &rad} {
		if err := runtime.BindQueryParameter("form", true, false, name, q, dst); err != nil {
			return domain.CampFilter{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
		}
	}

	var f domain.CampFilter
	if career != nil {
		c := domain.Career(*career)
		f.Career = &c
	}
	switch {
	case lon == nil && lat == nil && rad == nil:
	case lon == nil || lat == nil || rad == nil:
		return domain.CampFilter{}, errors.New("lon, lat and radius_km must be given together")
	default:
		f.Near = &domain.GeoPoint{Lon: *lon, Lat: *lat}
		f.RadiusKm = *rad
	}
	return f, nil
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
