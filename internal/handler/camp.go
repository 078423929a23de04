package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/campdir/backend/internal/domain"
)

// CampRequest is the body of POST /camps and PUT /camps/{campId}.
// On update every field is optional and absent fields are left unchanged.
// Address is write-only: it is geocoded into location and never stored.
// averageCost is derived and not accepted from clients.
type CampRequest struct {
	User          *openapi_types.UUID `json:"user,omitempty"`
	Name          *string             `json:"name,omitempty"`
	Description   *string             `json:"description,omitempty"`
	Website       *string             `json:"website,omitempty"`
	Phone         *string             `json:"phone,omitempty"`
	Email         *string             `json:"email,omitempty"`
	Address       *string             `json:"address,omitempty"`
	Careers       []domain.Career     `json:"careers,omitempty"`
	AverageRating *float64            `json:"averageRating,omitempty"`
	JobAssistance *bool               `json:"jobAssistance,omitempty"`
	StartDate     *openapi_types.Date `json:"startDate,omitempty"`
}

// Camp is the JSON representation of a camp.
type Camp struct {
	ID            uuid.UUID           `json:"id"`
	User          uuid.UUID           `json:"user"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Website       string              `json:"website,omitempty"`
	Phone         string              `json:"phone,omitempty"`
	Email         string              `json:"email"`
	Location      *domain.Location    `json:"location,omitempty"`
	Careers       []domain.Career     `json:"careers"`
	AverageRating *float64            `json:"averageRating,omitempty"`
	AverageCost   *int                `json:"averageCost,omitempty"`
	Image         string              `json:"image"`
	JobAssistance bool                `json:"jobAssistance"`
	StartDate     *openapi_types.Date `json:"startDate,omitempty"`
	Courses       []Course            `json:"courses,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// CreateCamp handles POST /camps.
// A missing or empty address creates a remote camp.
func (s *Server) CreateCamp(w http.ResponseWriter, r *http.Request) {
	var body CampRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.camps.Create(r.Context(), requestToCamp(body), derefString(body.Address))
	if err != nil {
		s.writeError(w, r, err, "camp")
		return
	}
	writeJSON(w, http.StatusCreated, dataResponse[Camp]{Data: campToResponse(created)})
}

// ListCamps handles GET /camps.
// Supports ?career=, ?lon=&lat=&radius_km=, ?page= and ?limit=.
func (s *Server) ListCamps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := paginationParams(q)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	filter, err := campFilter(q)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	camps, total, err := s.camps.ListPaged(r.Context(), filter, params)
	if err != nil {
		s.writeError(w, r, err, "camp")
		return
	}

	data := make([]Camp, len(camps))
	for i, c := range camps {
		data[i] = campToResponse(c)
	}
	writeJSON(w, http.StatusOK, newListResponse(data, params, total))
}

// GetCamp handles GET /camps/{campId}. The camp's courses are embedded.
func (s *Server) GetCamp(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "campId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	camp, err := s.camps.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "camp")
		return
	}
	writeJSON(w, http.StatusOK, dataResponse[Camp]{Data: campToResponse(camp)})
}

// UpdateCamp handles PUT /camps/{campId}.
// Supplying address (even "") re-resolves the location.
func (s *Server) UpdateCamp(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "campId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var body CampRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.camps.Update(r.Context(), id, requestToCampPatch(body))
	if err != nil {
		s.writeError(w, r, err, "camp")
		return
	}
	writeJSON(w, http.StatusOK, dataResponse[Camp]{Data: campToResponse(updated)})
}

// DeleteCamp handles DELETE /camps/{campId}. Its courses are removed first.
func (s *Server) DeleteCamp(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "campId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	if err := s.camps.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, "camp")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToCamp converts a create body into a domain.Camp.
// Required-field checks happen in the service.
func requestToCamp(body CampRequest) domain.Camp {
	c := domain.Camp{
		Name:          derefString(body.Name),
		Description:   derefString(body.Description),
		Website:       derefString(body.Website),
		Phone:         derefString(body.Phone),
		Email:         derefString(body.Email),
		Careers:       body.Careers,
		AverageRating: body.AverageRating,
		JobAssistance: derefBool(body.JobAssistance),
	}
	if body.User != nil {
		c.UserID = *body.User
	}
	if body.StartDate != nil {
		d := body.StartDate.Time
		c.StartDate = &d
	}
	return c
}

// requestToCampPatch converts an update body into a domain.CampPatch.
// The owning user cannot be changed and is ignored.
func requestToCampPatch(body CampRequest) domain.CampPatch {
	p := domain.CampPatch{
		Name:          body.Name,
		Description:   body.Description,
		Website:       body.Website,
		Phone:         body.Phone,
		Email:         body.Email,
		Address:       body.Address,
		Careers:       body.Careers,
		AverageRating: body.AverageRating,
		JobAssistance: body.JobAssistance,
	}
	if body.StartDate != nil {
		d := body.StartDate.Time
		p.StartDate = &d
	}
	return p
}

// campToResponse converts a domain.Camp into its JSON representation.
func campToResponse(c domain.Camp) Camp {
	resp := Camp{
		ID:            c.ID,
		User:          c.UserID,
		Name:          c.Name,
		Slug:          c.Slug,
		Description:   c.Description,
		Website:       c.Website,
		Phone:         c.Phone,
		Email:         c.Email,
		Location:      c.Location,
		Careers:       c.Careers,
		AverageRating: c.AverageRating,
		AverageCost:   c.AverageCost,
		Image:         c.Image,
		JobAssistance: c.JobAssistance,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.StartDate != nil {
		resp.StartDate = &openapi_types.Date{Time: *c.StartDate}
	}
	if c.Courses != nil {
		resp.Courses = make([]Course, len(c.Courses))
		for i, course := range c.Courses {
			resp.Courses[i] = courseToResponse(course)
		}
	}
	return resp
}
