package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/campdir/backend/internal/domain"
	"github.com/campdir/backend/internal/repo"
)

// CourseService implements business logic for Course operations.
// It holds the camps repo because every course write ends by recomputing the
// owning camp's average cost.
type CourseService struct {
	camps   repo.CampRepo
	courses repo.CourseRepo
	log     *slog.Logger
}

// NewCourseService constructs a CourseService backed by the provided repos.
func NewCourseService(camps repo.CampRepo, courses repo.CourseRepo, log *slog.Logger) *CourseService {
	return &CourseService{camps: camps, courses: courses, log: log}
}

// Create verifies the camp exists, validates and persists the course, then
// recomputes the camp's average cost.
// Returns domain.ErrNotFound if the camp does not exist.
func (s *CourseService) Create(ctx context.Context, course domain.Course) (domain.Course, error) {
	if _, err := s.camps.GetByID(ctx, course.CampID); err != nil {
		return domain.Course{}, fmt.Errorf("service.CourseService.Create: %w", err)
	}
	course.Title = strings.TrimSpace(course.Title)
	if err := validateStruct(course); err != nil {
		return domain.Course{}, err
	}
	created, err := s.courses.Create(ctx, course)
	if err != nil {
		return domain.Course{}, fmt.Errorf("service.CourseService.Create: %w", err)
	}
	s.afterSave(ctx, created.CampID)
	return created, nil
}

// GetByID returns a single course.
// Returns domain.ErrNotFound if the course does not exist.
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return domain.Course{}, fmt.Errorf("service.CourseService.GetByID: %w", err)
	}
	return course, nil
}

// ListByCampID returns all courses of a camp. A camp without courses, or one
// that no longer exists, yields an empty non-nil slice.
func (s *CourseService) ListByCampID(ctx context.Context, campID uuid.UUID) ([]domain.Course, error) {
	courses, err := s.courses.ListByCampID(ctx, campID)
	if err != nil {
		return nil, fmt.Errorf("service.CourseService.ListByCampID: %w", err)
	}
	if courses == nil {
		return []domain.Course{}, nil
	}
	return courses, nil
}

// ListPaged returns one page of courses, optionally scoped to a camp.
func (s *CourseService) ListPaged(ctx context.Context, campID *uuid.UUID, p domain.PaginationParams) ([]domain.Course, int64, error) {
	courses, total, err := s.courses.ListPaged(ctx, campID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.CourseService.ListPaged: %w", err)
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	return courses, total, nil
}

// Update validates and persists changes to an existing course, then
// recomputes the camp's average cost. The course stays with its camp
// whatever CampID the caller passes.
func (s *CourseService) Update(ctx context.Context, course domain.Course) (domain.Course, error) {
	existing, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return domain.Course{}, fmt.Errorf("service.CourseService.Update: %w", err)
	}
	course.CampID = existing.CampID
	course.Title = strings.TrimSpace(course.Title)
	if err := validateStruct(course); err != nil {
		return domain.Course{}, err
	}
	updated, err := s.courses.Update(ctx, course)
	if err != nil {
		return domain.Course{}, fmt.Errorf("service.CourseService.Update: %w", err)
	}
	s.afterSave(ctx, updated.CampID)
	return updated, nil
}

// Delete removes a course and recomputes its camp's average cost.
// Returns domain.ErrNotFound if the course does not exist.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.CourseService.Delete: %w", err)
	}
	if err := s.remove(ctx, course); err != nil {
		return fmt.Errorf("service.CourseService.Delete: %w", err)
	}
	return nil
}

// remove is the single removal path for a course, shared with the camp
// cascade so every deletion runs the recompute hook.
func (s *CourseService) remove(ctx context.Context, course domain.Course) error {
	if err := s.courses.Delete(ctx, course.ID); err != nil {
		return err
	}
	s.afterRemove(ctx, course.CampID)
	return nil
}

// RecomputeAverageCost sets the camp's average cost from its current courses.
// With no courses left the average cost is cleared.
// Returns an error wrapping domain.ErrIntegrityDrift if the camp is gone.
func (s *CourseService) RecomputeAverageCost(ctx context.Context, campID uuid.UUID) error {
	avg, ok, err := s.courses.AverageTuition(ctx, campID)
	if err != nil {
		return fmt.Errorf("service.CourseService.RecomputeAverageCost: %w", err)
	}

	var cost *int
	if ok {
		c := RoundUpToTen(avg)
		cost = &c
	}

	if err := s.camps.SetAverageCost(ctx, campID, cost); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("service.CourseService.RecomputeAverageCost: camp %s: %w", campID, domain.ErrIntegrityDrift)
		}
		return fmt.Errorf("service.CourseService.RecomputeAverageCost: %w", err)
	}
	return nil
}

// afterSave runs after a course create or update has committed.
func (s *CourseService) afterSave(ctx context.Context, campID uuid.UUID) {
	s.syncAverageCost(ctx, campID, "save")
}

// afterRemove runs after a course delete has committed.
func (s *CourseService) afterRemove(ctx context.Context, campID uuid.UUID) {
	s.syncAverageCost(ctx, campID, "remove")
}

// syncAverageCost recomputes and logs any failure. The course operation
// that triggered it has already committed and must still succeed.
func (s *CourseService) syncAverageCost(ctx context.Context, campID uuid.UUID, trigger string) {
	err := s.RecomputeAverageCost(ctx, campID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrIntegrityDrift):
		s.log.WarnContext(ctx, "average cost recompute skipped: camp no longer exists",
			"camp_id", campID, "trigger", trigger)
	default:
		s.log.ErrorContext(ctx, "average cost recompute failed",
			"camp_id", campID, "trigger", trigger, "error", err)
	}
}

// RoundUpToTen rounds avg up to the next multiple of 10.
// A value that is already a multiple of 10 is returned unchanged.
func RoundUpToTen(avg float64) int {
	return int(math.Ceil(avg/10)) * 10
}
