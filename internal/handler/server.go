// Package handler implements the HTTP handlers for the bootcamp directory API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, camp.go, course.go) but share the same Server struct so they
// can access its dependencies. Handlers only translate HTTP to service calls;
// every consistency rule lives in the service layer.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campdir/backend/internal/domain"
)

// CampServicer defines the business operations the camp handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type CampServicer interface {
	Create(ctx context.Context, camp domain.Camp, address string) (domain.Camp, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Camp, error)
	ListPaged(ctx context.Context, filter domain.CampFilter, p domain.PaginationParams) ([]domain.Camp, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.CampPatch) (domain.Camp, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseServicer defines the business operations the course handlers depend on.
type CourseServicer interface {
	Create(ctx context.Context, course domain.Course) (domain.Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Course, error)
	ListPaged(ctx context.Context, campID *uuid.UUID, p domain.PaginationParams) ([]domain.Course, int64, error)
	Update(ctx context.Context, course domain.Course) (domain.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	camps   CampServicer
	courses CourseServicer
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(camps CampServicer, courses CourseServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{camps: camps, courses: courses, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}

// Routes registers every endpoint on a new chi router.
// Mount the result under the application router in main.go.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/careers", s.ListCareers)

	r.Route("/camps", func(r chi.Router) {
		r.Get("/", s.ListCamps)
		r.Post("/", s.CreateCamp)
		r.Route("/{campId}", func(r chi.Router) {
			r.Get("/", s.GetCamp)
			r.Put("/", s.UpdateCamp)
			r.Delete("/", s.DeleteCamp)
			r.Get("/courses", s.ListCampCourses)
			r.Post("/courses", s.CreateCourse)
		})
	})

	r.Route("/courses", func(r chi.Router) {
		r.Get("/", s.ListCourses)
		r.Route("/{courseId}", func(r chi.Router) {
			r.Get("/", s.GetCourse)
			r.Put("/", s.UpdateCourse)
			r.Delete("/", s.DeleteCourse)
		})
	})

	return r
}
