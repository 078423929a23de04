package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/campdir/backend/internal/domain"
)

// CourseRepo defines the persistence operations for Courses.
// A course holds its camp's id as a foreign key; the camp is never embedded.
type CourseRepo interface {
	// Create inserts a new course and returns the persisted record.
	// Returns domain.ErrNotFound if the referenced camp does not exist.
	Create(ctx context.Context, course domain.Course) (domain.Course, error)

	// GetByID retrieves a single course by its UUID primary key.
	// Returns domain.ErrNotFound if no course with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Course, error)

	// ListByCampID returns all courses of a camp ordered by created_at ascending.
	ListByCampID(ctx context.Context, campID uuid.UUID) ([]domain.Course, error)

	// ListPaged returns one page of courses and the total count.
	// A nil campID lists courses across all camps.
	ListPaged(ctx context.Context, campID *uuid.UUID, p domain.PaginationParams) ([]domain.Course, int64, error)

	// Update overwrites the mutable fields of a course. The camp reference is
	// not writable. Returns domain.ErrNotFound if the course does not exist.
	Update(ctx context.Context, course domain.Course) (domain.Course, error)

	// Delete removes a course by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByCampID removes every course of a camp and reports how many went.
	DeleteByCampID(ctx context.Context, campID uuid.UUID) (int64, error)

	// AverageTuition returns the mean tuition of a camp's courses.
	// ok is false when the camp has no courses.
	AverageTuition(ctx context.Context, campID uuid.UUID) (avg float64, ok bool, err error)
}

// pgCourseRepo is the Postgres implementation of CourseRepo.
type pgCourseRepo struct {
	db db
}

// NewCourseRepo constructs a CourseRepo backed by the provided db connection.
func NewCourseRepo(db db) CourseRepo {
	return &pgCourseRepo{db: db}
}

const courseColumns = `
	id, camp_id, title, description, duration, tuition, difficulty, available_job,
	created_at, updated_at`

// Create inserts a course and returns it with its generated id and
// timestamps. A camp_id with no matching camp yields domain.ErrNotFound.
func (r *pgCourseRepo) Create(ctx context.Context, course domain.Course) (domain.Course, error) {
	q := `
		INSERT INTO courses (camp_id, title, description, duration, tuition, difficulty, available_job)
		VALUES (@camp_id, @title, @description, @duration, @tuition, @difficulty, @available_job)
		RETURNING` + courseColumns

	args := courseArgs(course)
	args["camp_id"] = course.CampID

	result, err := scanCourse(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Course{}, fmt.Errorf("repo.CourseRepo.Create: %w", translateWriteError(err))
	}
	return result, nil
}

// GetByID fetches a single course by primary key.
// Returns domain.ErrNotFound if no row matches.
func (r *pgCourseRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Course, error) {
	q := `SELECT` + courseColumns + ` FROM courses WHERE id = @id`

	result, err := scanCourse(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Course{}, fmt.Errorf("repo.CourseRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByCampID returns every course of a camp, oldest first.
func (r *pgCourseRepo) ListByCampID(ctx context.Context, campID uuid.UUID) ([]domain.Course, error) {
	q := `SELECT` + courseColumns + `
		FROM courses
		WHERE camp_id = @camp_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"camp_id": campID})
	if err != nil {
		return nil, fmt.Errorf("repo.CourseRepo.ListByCampID: %w", err)
	}
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.CourseRepo.ListByCampID: %w", err)
	}
	return courses, nil
}

// ListPaged returns one page of courses, oldest first, and the total
// matching count. A nil campID lists courses across all camps.
func (r *pgCourseRepo) ListPaged(ctx context.Context, campID *uuid.UUID, p domain.PaginationParams) ([]domain.Course, int64, error) {
	const where = ` WHERE (@camp_id::uuid IS NULL OR camp_id = @camp_id::uuid)`
	args := pgx.NamedArgs{"camp_id": campID, "limit": p.Limit, "offset": p.Offset()}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM courses`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.CourseRepo.ListPaged: count: %w", err)
	}

	q := `SELECT` + courseColumns + ` FROM courses` + where + `
		ORDER BY created_at, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CourseRepo.ListPaged: %w", err)
	}
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CourseRepo.ListPaged: %w", err)
	}
	return courses, total, nil
}

// Update overwrites the editable fields of a course. camp_id is never
// written. Returns domain.ErrNotFound if no row matches.
func (r *pgCourseRepo) Update(ctx context.Context, course domain.Course) (domain.Course, error) {
	q := `
		UPDATE courses
		SET title         = @title,
		    description   = @description,
		    duration      = @duration,
		    tuition       = @tuition,
		    difficulty    = @difficulty,
		    available_job = @available_job,
		    updated_at    = now()
		WHERE id = @id
		RETURNING` + courseColumns

	args := courseArgs(course)
	args["id"] = course.ID

	result, err := scanCourse(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Course{}, fmt.Errorf("repo.CourseRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a course by primary key.
// Returns domain.ErrNotFound if no row was deleted.
func (r *pgCourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM courses WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CourseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CourseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// DeleteByCampID removes all courses of a camp and reports how many went.
func (r *pgCourseRepo) DeleteByCampID(ctx context.Context, campID uuid.UUID) (int64, error) {
	const q = `DELETE FROM courses WHERE camp_id = @camp_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"camp_id": campID})
	if err != nil {
		return 0, fmt.Errorf("repo.CourseRepo.DeleteByCampID: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AverageTuition aggregates in the database. AVG over zero rows is NULL,
// which is reported as ok == false.
func (r *pgCourseRepo) AverageTuition(ctx context.Context, campID uuid.UUID) (float64, bool, error) {
	const q = `SELECT AVG(tuition)::float8 FROM courses WHERE camp_id = @camp_id`

	var avg pgtype.Float8
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"camp_id": campID}).Scan(&avg); err != nil {
		return 0, false, fmt.Errorf("repo.CourseRepo.AverageTuition: %w", err)
	}
	return avg.Float64, avg.Valid, nil
}

func courseArgs(course domain.Course) pgx.NamedArgs {
	return pgx.NamedArgs{
		"title":         course.Title,
		"description":   course.Description,
		"duration":      course.Duration,
		"tuition":       course.Tuition,
		"difficulty":    string(course.Difficulty),
		"available_job": course.AvailableJob,
	}
}

// collectCourses drains rows into a non-nil slice and closes them.
func collectCourses(rows pgx.Rows) ([]domain.Course, error) {
	defer rows.Close()

	courses := []domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return courses, nil
}

// scanCourse maps a single database row into a domain.Course.
func scanCourse(s scanner) (domain.Course, error) {
	var (
		c          domain.Course
		id         pgtype.UUID
		campID     pgtype.UUID
		difficulty string
	)

	err := s.Scan(&id, &campID, &c.Title, &c.Description, &c.Duration, &c.Tuition,
		&difficulty, &c.AvailableJob, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Course{}, domain.ErrNotFound
		}
		return domain.Course{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.CampID = uuid.UUID(campID.Bytes)
	c.Difficulty = domain.Difficulty(difficulty)
	return c, nil
}
