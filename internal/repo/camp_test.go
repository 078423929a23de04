package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campdir/backend/internal/domain"
	"github.com/campdir/backend/internal/repo"
	"github.com/campdir/backend/testutil"
)

// newTestRepos returns both repos sharing one transaction that is rolled
// back when the test ends.
func newTestRepos(t *testing.T) (repo.CampRepo, repo.CourseRepo) {
	t.Helper()
	tx := testutil.NewTx(t)
	return repo.NewCampRepo(tx), repo.NewCourseRepo(tx)
}

// campFixture returns a geocoded Camp ready for insertion.
func campFixture(name string) domain.Camp {
	loc := domain.Location{
		Type:             domain.PointType,
		Coordinates:      []float64{-122.4, 37.8},
		FormattedAddress: "X",
		Street:           "Y",
		City:             "SF",
		Zipcode:          "94107",
		Country:          "US",
	}
	return domain.Camp{
		UserID:      uuid.New(),
		Name:        name,
		Slug:        "slug-" + name,
		Description: "Full stack web development",
		Email:       "hello@example.com",
		Location:    &loc,
		Careers:     []domain.Career{domain.CareerWebDevelopment, domain.CareerDataAnalysis},
	}
}

func mustCreateCamp(t *testing.T, r repo.CampRepo, name string) domain.Camp {
	t.Helper()
	camp, err := r.Create(context.Background(), campFixture(name))
	require.NoError(t, err, "create camp")
	return camp
}

func TestCampRepo_Create(t *testing.T) {
	camps, _ := newTestRepos(t)
	ctx := context.Background()
	input := campFixture("Devworks Bootcamp")

	got, err := camps.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.UserID, got.UserID)
	assert.Equal(t, input.Name, got.Name)
	assert.Equal(t, input.Careers, got.Careers)
	assert.Equal(t, *input.Location, *got.Location)
	assert.Equal(t, domain.DefaultCampImage, got.Image)
	assert.Nil(t, got.AverageCost, "average cost is never written on create")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCampRepo_Create_Remote(t *testing.T) {
	camps, _ := newTestRepos(t)
	input := campFixture("Remote Camp")
	remote := domain.RemoteLocation()
	input.Location = &remote

	got, err := camps.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, domain.RemoteLocation(), *got.Location)
}

func TestCampRepo_Create_DuplicateName(t *testing.T) {
	camps, _ := newTestRepos(t)
	mustCreateCamp(t, camps, "Devworks Bootcamp")

	_, err := camps.Create(context.Background(), campFixture("Devworks Bootcamp"))

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "name", conflict.Field)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCampRepo_GetByID_NotFound(t *testing.T) {
	camps, _ := newTestRepos(t)

	_, err := camps.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCampRepo_Update_LeavesAverageCost(t *testing.T) {
	camps, _ := newTestRepos(t)
	ctx := context.Background()
	created := mustCreateCamp(t, camps, "Devworks Bootcamp")
	cost := 1200
	require.NoError(t, camps.SetAverageCost(ctx, created.ID, &cost))

	created.Name = "Devworks Academy"
	created.Slug = "devworks-academy"
	updated, err := camps.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Devworks Academy", updated.Name)
	require.NotNil(t, updated.AverageCost)
	assert.Equal(t, 1200, *updated.AverageCost)
}

func TestCampRepo_SetAverageCost(t *testing.T) {
	camps, _ := newTestRepos(t)
	ctx := context.Background()
	created := mustCreateCamp(t, camps, "Devworks Bootcamp")
	cost := 1500

	require.NoError(t, camps.SetAverageCost(ctx, created.ID, &cost))
	got, err := camps.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AverageCost)
	assert.Equal(t, 1500, *got.AverageCost)
	assert.Equal(t, created.Slug, got.Slug, "slug must not be disturbed by a cost write")

	require.NoError(t, camps.SetAverageCost(ctx, created.ID, nil))
	got, err = camps.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AverageCost)
}

func TestCampRepo_SetAverageCost_MissingCamp(t *testing.T) {
	camps, _ := newTestRepos(t)
	cost := 10

	err := camps.SetAverageCost(context.Background(), uuid.New(), &cost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCampRepo_ListPaged_CareerFilter(t *testing.T) {
	camps, _ := newTestRepos(t)
	ctx := context.Background()
	mustCreateCamp(t, camps, "Web Camp")
	robots := campFixture("Robot Camp")
	robots.Careers = []domain.Career{domain.CareerRobotics}
	_, err := camps.Create(ctx, robots)
	require.NoError(t, err)

	career := domain.CareerRobotics
	got, total, err := camps.ListPaged(ctx, domain.CampFilter{Career: &career}, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Robot Camp", got[0].Name)
}

func TestCampRepo_ListPaged_RadiusFilter(t *testing.T) {
	camps, _ := newTestRepos(t)
	ctx := context.Background()
	mustCreateCamp(t, camps, "SF Camp")
	remote := campFixture("Remote Camp")
	r := domain.RemoteLocation()
	remote.Location = &r
	_, err := camps.Create(ctx, remote)
	require.NoError(t, err)

	near := domain.CampFilter{Near: &domain.GeoPoint{Lon: -122.41, Lat: 37.79}, RadiusKm: 10}
	got, total, err := camps.ListPaged(ctx, near, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "SF Camp", got[0].Name)

	far := domain.CampFilter{Near: &domain.GeoPoint{Lon: 2.35, Lat: 48.85}, RadiusKm: 10}
	got, total, err = camps.ListPaged(ctx, far, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, got)
}

func TestCampRepo_Delete(t *testing.T) {
	camps, _ := newTestRepos(t)
	ctx := context.Background()
	created := mustCreateCamp(t, camps, "Devworks Bootcamp")

	require.NoError(t, camps.Delete(ctx, created.ID))

	_, err := camps.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, camps.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestCampRepo_Delete_WithCourses(t *testing.T) {
	camps, courses := newTestRepos(t)
	ctx := context.Background()
	camp := mustCreateCamp(t, camps, "Devworks Bootcamp")
	_, err := courses.Create(ctx, courseFixture(camp.ID, 1000))
	require.NoError(t, err)

	err = camps.Delete(ctx, camp.ID)

	assert.ErrorIs(t, err, domain.ErrConflict)
	var referenced *domain.ReferencedError
	require.ErrorAs(t, err, &referenced)
	assert.Equal(t, "courses", referenced.Field)
}
