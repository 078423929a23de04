package service_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campdir/backend/internal/domain"
	"github.com/campdir/backend/internal/repo"
	"github.com/campdir/backend/internal/service"
)

// mockCampRepo is a hand-written test double for repo.CampRepo.
// Each method is a function field; set only the ones your test needs.
type mockCampRepo struct {
	create         func(ctx context.Context, camp domain.Camp) (domain.Camp, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Camp, error)
	listPaged      func(ctx context.Context, f domain.CampFilter, p domain.PaginationParams) ([]domain.Camp, int64, error)
	update         func(ctx context.Context, camp domain.Camp) (domain.Camp, error)
	setAverageCost func(ctx context.Context, id uuid.UUID, cost *int) error
	delete         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCampRepo) Create(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	return m.create(ctx, camp)
}
func (m *mockCampRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Camp, error) {
	return m.getByID(ctx, id)
}
func (m *mockCampRepo) ListPaged(ctx context.Context, f domain.CampFilter, p domain.PaginationParams) ([]domain.Camp, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockCampRepo) Update(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	return m.update(ctx, camp)
}
func (m *mockCampRepo) SetAverageCost(ctx context.Context, id uuid.UUID, cost *int) error {
	return m.setAverageCost(ctx, id, cost)
}
func (m *mockCampRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.CampRepo = (*mockCampRepo)(nil)

// mockCourseRepo is a hand-written test double for repo.CourseRepo.
type mockCourseRepo struct {
	create         func(ctx context.Context, course domain.Course) (domain.Course, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Course, error)
	listByCampID   func(ctx context.Context, campID uuid.UUID) ([]domain.Course, error)
	listPaged      func(ctx context.Context, campID *uuid.UUID, p domain.PaginationParams) ([]domain.Course, int64, error)
	update         func(ctx context.Context, course domain.Course) (domain.Course, error)
	delete         func(ctx context.Context, id uuid.UUID) error
	deleteByCampID func(ctx context.Context, campID uuid.UUID) (int64, error)
	averageTuition func(ctx context.Context, campID uuid.UUID) (float64, bool, error)
}

func (m *mockCourseRepo) Create(ctx context.Context, course domain.Course) (domain.Course, error) {
	return m.create(ctx, course)
}
func (m *mockCourseRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Course, error) {
	return m.getByID(ctx, id)
}
func (m *mockCourseRepo) ListByCampID(ctx context.Context, campID uuid.UUID) ([]domain.Course, error) {
	return m.listByCampID(ctx, campID)
}
func (m *mockCourseRepo) ListPaged(ctx context.Context, campID *uuid.UUID, p domain.PaginationParams) ([]domain.Course, int64, error) {
	return m.listPaged(ctx, campID, p)
}
func (m *mockCourseRepo) Update(ctx context.Context, course domain.Course) (domain.Course, error) {
	return m.update(ctx, course)
}
func (m *mockCourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockCourseRepo) DeleteByCampID(ctx context.Context, campID uuid.UUID) (int64, error) {
	return m.deleteByCampID(ctx, campID)
}
func (m *mockCourseRepo) AverageTuition(ctx context.Context, campID uuid.UUID) (float64, bool, error) {
	return m.averageTuition(ctx, campID)
}

var _ repo.CourseRepo = (*mockCourseRepo)(nil)

// stubResolver is a test double for service.LocationResolver.
type stubResolver struct {
	calls     int
	addresses []string
	loc       domain.Location
	err       error
}

func (s *stubResolver) Resolve(_ context.Context, address string) (domain.Location, error) {
	s.calls++
	s.addresses = append(s.addresses, address)
	if address == "" {
		return domain.RemoteLocation(), nil
	}
	return s.loc, s.err
}

var _ service.LocationResolver = (*stubResolver)(nil)

// memStore backs both mock repos with maps so scenario tests can observe the
// hooks end to end. Tests may override any mock function after construction.
type memStore struct {
	camps   map[uuid.UUID]domain.Camp
	courses map[uuid.UUID]domain.Course
	seq     int

	campRepo   *mockCampRepo
	courseRepo *mockCourseRepo

	// setCostCalls records every SetAverageCost call in order.
	setCostCalls []uuid.UUID
}

func newMemStore() *memStore {
	s := &memStore{
		camps:   map[uuid.UUID]domain.Camp{},
		courses: map[uuid.UUID]domain.Course{},
	}

	s.campRepo = &mockCampRepo{
		create: func(_ context.Context, c domain.Camp) (domain.Camp, error) {
			for _, existing := range s.camps {
				if existing.Name == c.Name {
					return domain.Camp{}, &domain.ConflictError{Field: "name"}
				}
			}
			c.ID = uuid.New()
			c.CreatedAt = s.tick()
			c.UpdatedAt = c.CreatedAt
			c.AverageCost = nil
			if c.Image == "" {
				c.Image = domain.DefaultCampImage
			}
			s.camps[c.ID] = c
			return c, nil
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.Camp, error) {
			c, ok := s.camps[id]
			if !ok {
				return domain.Camp{}, domain.ErrNotFound
			}
			return c, nil
		},
		listPaged: func(_ context.Context, _ domain.CampFilter, _ domain.PaginationParams) ([]domain.Camp, int64, error) {
			var out []domain.Camp
			for _, c := range s.camps {
				out = append(out, c)
			}
			return out, int64(len(out)), nil
		},
		update: func(_ context.Context, c domain.Camp) (domain.Camp, error) {
			existing, ok := s.camps[c.ID]
			if !ok {
				return domain.Camp{}, domain.ErrNotFound
			}
			c.AverageCost = existing.AverageCost
			c.UserID = existing.UserID
			c.UpdatedAt = s.tick()
			s.camps[c.ID] = c
			return c, nil
		},
		setAverageCost: func(_ context.Context, id uuid.UUID, cost *int) error {
			s.setCostCalls = append(s.setCostCalls, id)
			c, ok := s.camps[id]
			if !ok {
				return domain.ErrNotFound
			}
			c.AverageCost = cost
			s.camps[id] = c
			return nil
		},
		delete: func(_ context.Context, id uuid.UUID) error {
			if _, ok := s.camps[id]; !ok {
				return domain.ErrNotFound
			}
			delete(s.camps, id)
			return nil
		},
	}

	s.courseRepo = &mockCourseRepo{
		create: func(_ context.Context, c domain.Course) (domain.Course, error) {
			if _, ok := s.camps[c.CampID]; !ok {
				return domain.Course{}, domain.ErrNotFound
			}
			c.ID = uuid.New()
			c.CreatedAt = s.tick()
			c.UpdatedAt = c.CreatedAt
			s.courses[c.ID] = c
			return c, nil
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.Course, error) {
			c, ok := s.courses[id]
			if !ok {
				return domain.Course{}, domain.ErrNotFound
			}
			return c, nil
		},
		listByCampID: func(_ context.Context, campID uuid.UUID) ([]domain.Course, error) {
			return s.coursesOf(campID), nil
		},
		listPaged: func(_ context.Context, campID *uuid.UUID, _ domain.PaginationParams) ([]domain.Course, int64, error) {
			var out []domain.Course
			for _, c := range s.courses {
				if campID == nil || c.CampID == *campID {
					out = append(out, c)
				}
			}
			return out, int64(len(out)), nil
		},
		update: func(_ context.Context, c domain.Course) (domain.Course, error) {
			existing, ok := s.courses[c.ID]
			if !ok {
				return domain.Course{}, domain.ErrNotFound
			}
			c.CampID = existing.CampID
			c.CreatedAt = existing.CreatedAt
			c.UpdatedAt = s.tick()
			s.courses[c.ID] = c
			return c, nil
		},
		delete: func(_ context.Context, id uuid.UUID) error {
			if _, ok := s.courses[id]; !ok {
				return domain.ErrNotFound
			}
			delete(s.courses, id)
			return nil
		},
		deleteByCampID: func(_ context.Context, campID uuid.UUID) (int64, error) {
			var n int64
			for id, c := range s.courses {
				if c.CampID == campID {
					delete(s.courses, id)
					n++
				}
			}
			return n, nil
		},
		averageTuition: func(_ context.Context, campID uuid.UUID) (float64, bool, error) {
			courses := s.coursesOf(campID)
			if len(courses) == 0 {
				return 0, false, nil
			}
			var sum float64
			for _, c := range courses {
				sum += *c.Tuition
			}
			return sum / float64(len(courses)), true, nil
		},
	}

	return s
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (s *memStore) tick() time.Time {
	s.seq++
	return time.Date(2025, 1, 1, 0, 0, s.seq, 0, time.UTC)
}

func (s *memStore) coursesOf(campID uuid.UUID) []domain.Course {
	out := []domain.Course{}
	for _, c := range s.courses {
		if c.CampID == campID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// services wires the full service graph over a memStore.
type services struct {
	store     *memStore
	geo       *stubResolver
	camps     *service.CampService
	courses   *service.CourseService
	lifecycle *service.Lifecycle
}

func newServices(store *memStore, geo *stubResolver, log *slog.Logger) services {
	if log == nil {
		log = discardLogger()
	}
	courses := service.NewCourseService(store.campRepo, store.courseRepo, log)
	lifecycle := service.NewLifecycle(store.courseRepo, courses, log)
	camps := service.NewCampService(store.campRepo, store.courseRepo, geo, lifecycle)
	return services{store: store, geo: geo, camps: camps, courses: courses, lifecycle: lifecycle}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validCamp() domain.Camp {
	return domain.Camp{
		UserID:      uuid.New(),
		Name:        "Devworks Bootcamp",
		Description: "Devworks is a full stack JavaScript bootcamp",
		Website:     "https://devworks.com",
		Phone:       "(111) 111-1111",
		Email:       "enroll@devworks.com",
		Careers:     []domain.Career{domain.CareerWebDevelopment, domain.CareerWebDesign},
	}
}

func validCourse(campID uuid.UUID, tuition float64) domain.Course {
	return domain.Course{
		CampID:      campID,
		Title:       "Front End Web Development",
		Description: "HTML, CSS and JavaScript",
		Duration:    "8 weeks",
		Tuition:     &tuition,
		Difficulty:  domain.DifficultyBeginner,
	}
}

func sfLocation() domain.Location {
	return domain.Location{
		Type:             domain.PointType,
		Coordinates:      []float64{-122.4, 37.8},
		FormattedAddress: "X",
		Street:           "Y",
		City:             "SF",
		Zipcode:          "94107",
		Country:          "US",
	}
}
