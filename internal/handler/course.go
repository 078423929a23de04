package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/campdir/backend/internal/domain"
)

// CourseRequest is the body of POST /camps/{campId}/courses and PUT /courses/{courseId}.
// A course is always replaced as a whole; its camp never changes.
type CourseRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Duration     string            `json:"duration"`
	Tuition      *float64          `json:"tuition"`
	Difficulty   domain.Difficulty `json:"difficulty"`
	AvailableJob *bool             `json:"availableJob,omitempty"`
}

// Course is the JSON representation of a course. Camp holds the owning
// camp's id; the camp is never embedded.
type Course struct {
	ID           uuid.UUID         `json:"id"`
	Camp         uuid.UUID         `json:"camp"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Duration     string            `json:"duration"`
	Tuition      float64           `json:"tuition"`
	Difficulty   domain.Difficulty `json:"difficulty"`
	AvailableJob bool              `json:"availableJob"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// CreateCourse handles POST /camps/{campId}/courses.
func (s *Server) CreateCourse(w http.ResponseWriter, r *http.Request) {
	campID, err := pathUUID(r, "campId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var body CourseRequest
	if !decodeBody(w, r, &body) {
		return
	}
	course := requestToCourse(body)
	course.CampID = campID

	created, err := s.courses.Create(r.Context(), course)
	if err != nil {
		s.writeError(w, r, err, "camp")
		return
	}
	writeJSON(w, http.StatusCreated, dataResponse[Course]{Data: courseToResponse(created)})
}

// ListCampCourses handles GET /camps/{campId}/courses.
func (s *Server) ListCampCourses(w http.ResponseWriter, r *http.Request) {
	campID, err := pathUUID(r, "campId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	s.listCourses(w, r, &campID)
}

// ListCourses handles GET /courses.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListCourses(w http.ResponseWriter, r *http.Request) {
	s.listCourses(w, r, nil)
}

func (s *Server) listCourses(w http.ResponseWriter, r *http.Request, campID *uuid.UUID) {
	params, err := paginationParams(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	courses, total, err := s.courses.ListPaged(r.Context(), campID, params)
	if err != nil {
		s.writeError(w, r, err, "course")
		return
	}

	data := make([]Course, len(courses))
	for i, c := range courses {
		data[i] = courseToResponse(c)
	}
	writeJSON(w, http.StatusOK, newListResponse(data, params, total))
}

// GetCourse handles GET /courses/{courseId}.
func (s *Server) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "courseId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	course, err := s.courses.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "course")
		return
	}
	writeJSON(w, http.StatusOK, dataResponse[Course]{Data: courseToResponse(course)})
}

// UpdateCourse handles PUT /courses/{courseId}.
func (s *Server) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "courseId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var body CourseRequest
	if !decodeBody(w, r, &body) {
		return
	}
	course := requestToCourse(body)
	course.ID = id

	updated, err := s.courses.Update(r.Context(), course)
	if err != nil {
		s.writeError(w, r, err, "course")
		return
	}
	writeJSON(w, http.StatusOK, dataResponse[Course]{Data: courseToResponse(updated)})
}

// DeleteCourse handles DELETE /courses/{courseId}.
func (s *Server) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "courseId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	if err := s.courses.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, "course")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToCourse converts a request body into a domain.Course. A missing
// tuition stays nil so the service reports it alongside the other fields.
func requestToCourse(body CourseRequest) domain.Course {
	return domain.Course{
		Title:        body.Title,
		Description:  body.Description,
		Duration:     body.Duration,
		Tuition:      body.Tuition,
		Difficulty:   body.Difficulty,
		AvailableJob: derefBool(body.AvailableJob),
	}
}

// courseToResponse converts a domain.Course into its JSON representation.
func courseToResponse(c domain.Course) Course {
	return Course{
		ID:           c.ID,
		Camp:         c.CampID,
		Title:        c.Title,
		Description:  c.Description,
		Duration:     c.Duration,
		Tuition:      derefFloat(c.Tuition),
		Difficulty:   c.Difficulty,
		AvailableJob: c.AvailableJob,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
