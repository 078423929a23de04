// Package service contains the business logic for the bootcamp directory.
// Services validate inputs, run the save and remove hooks that keep derived
// fields consistent, and orchestrate repo calls. No SQL lives here.
//
// Hooks are plain methods called at fixed points:
//   - CampService.beforeSave runs before every camp commit (slug + location).
//   - CourseService.afterSave / afterRemove run after every course commit
//     and recompute the owning camp's average cost.
//   - Lifecycle.OnCampRemove runs before a camp delete and removes its courses.
//
// Each step is its own commit; nothing here spans a transaction.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campdir/backend/internal/domain"
	"github.com/campdir/backend/internal/repo"
)

// LocationResolver resolves a postal address into a camp location.
// An empty address resolves to domain.RemoteLocation.
type LocationResolver interface {
	Resolve(ctx context.Context, address string) (domain.Location, error)
}

// CampService implements business logic for Camp operations.
type CampService struct {
	camps     repo.CampRepo
	courses   repo.CourseRepo
	geo       LocationResolver
	lifecycle *Lifecycle
}

// NewCampService constructs a CampService. lifecycle runs the cascading
// delete when a camp is removed.
func NewCampService(camps repo.CampRepo, courses repo.CourseRepo, geo LocationResolver, lifecycle *Lifecycle) *CampService {
	return &CampService{camps: camps, courses: courses, geo: geo, lifecycle: lifecycle}
}

// Create validates the camp, runs the save hook on address, then persists.
// Returns a *domain.ValidationError for invalid input, a *domain.ConflictError
// for a duplicate name, and domain.ErrUpstream if the address cannot be geocoded.
// An empty address makes the camp remote.
func (s *CampService) Create(ctx context.Context, camp domain.Camp, address string) (domain.Camp, error) {
	camp.Name = strings.TrimSpace(camp.Name)
	camp.AverageCost = nil
	if err := validateStruct(camp); err != nil {
		return domain.Camp{}, err
	}
	if err := s.beforeSave(ctx, &camp, &address); err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.Create: %w", err)
	}
	created, err := s.camps.Create(ctx, camp)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a camp with its courses embedded.
// Returns domain.ErrNotFound if the camp does not exist.
func (s *CampService) GetByID(ctx context.Context, id uuid.UUID) (domain.Camp, error) {
	camp, err := s.camps.GetByID(ctx, id)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.GetByID: %w", err)
	}
	courses, err := s.courses.ListByCampID(ctx, id)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.GetByID: %w", err)
	}
	camp.Courses = courses
	return camp, nil
}

// ListPaged returns one page of camps matching filter and the total count.
// Always returns a non-nil slice.
func (s *CampService) ListPaged(ctx context.Context, filter domain.CampFilter, p domain.PaginationParams) ([]domain.Camp, int64, error) {
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}
	camps, total, err := s.camps.ListPaged(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.CampService.ListPaged: %w", err)
	}
	if camps == nil {
		camps = []domain.Camp{}
	}
	return camps, total, nil
}

// Update applies patch to an existing camp, runs the save hook and persists.
// The slug is recomputed on every update; the location only when
// patch.Address is set. The average cost is never written here.
func (s *CampService) Update(ctx context.Context, id uuid.UUID, patch domain.CampPatch) (domain.Camp, error) {
	camp, err := s.camps.GetByID(ctx, id)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.Update: %w", err)
	}

	patch.Apply(&camp)
	camp.Name = strings.TrimSpace(camp.Name)
	if err := validateStruct(camp); err != nil {
		return domain.Camp{}, err
	}
	if err := s.beforeSave(ctx, &camp, patch.Address); err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.Update: %w", err)
	}

	updated, err := s.camps.Update(ctx, camp)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes every course of the camp, then the camp itself.
// Returns domain.ErrNotFound if the camp does not exist. If the camp delete
// fails after the cascade, the removed courses are not restored.
func (s *CampService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.camps.GetByID(ctx, id); err != nil {
		return fmt.Errorf("service.CampService.Delete: %w", err)
	}
	if _, err := s.lifecycle.OnCampRemove(ctx, id); err != nil {
		return fmt.Errorf("service.CampService.Delete: %w", err)
	}
	if err := s.camps.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.CampService.Delete: %w", err)
	}
	return nil
}

// beforeSave is the pre-commit hook for every camp write.
//   - slug is always regenerated from name.
//   - when address is non-nil it is resolved and replaces location; the
//     address itself is never stored.
//
// camp is only modified once both steps have succeeded, so a geocoding
// failure leaves it exactly as it was.
func (s *CampService) beforeSave(ctx context.Context, camp *domain.Camp, address *string) error {
	slug := Slugify(camp.Name)

	loc := camp.Location
	if address != nil {
		resolved, err := s.geo.Resolve(ctx, strings.TrimSpace(*address))
		if err != nil {
			return err
		}
		loc = &resolved
	}
	if loc == nil {
		remote := domain.RemoteLocation()
		loc = &remote
	}

	camp.Slug = slug
	camp.Location = loc
	return nil
}
