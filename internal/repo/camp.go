package repo

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"

	"github.com/campdir/backend/internal/domain"
)

// CampRepo defines the persistence operations for Camps.
// The service layer depends on this interface, not the concrete Postgres implementation.
type CampRepo interface {
	// Create inserts a new camp and returns the persisted record.
	// Returns a *domain.ConflictError if the name is already taken.
	Create(ctx context.Context, camp domain.Camp) (domain.Camp, error)

	// GetByID retrieves a single camp by its UUID primary key.
	// Returns domain.ErrNotFound if no camp with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Camp, error)

	// ListPaged returns one page of camps matching filter, newest first, and the total count.
	ListPaged(ctx context.Context, filter domain.CampFilter, p domain.PaginationParams) ([]domain.Camp, int64, error)

	// Update overwrites the client-writable and save-hook fields of a camp.
	// AverageCost, UserID and Image are never written. Returns domain.ErrNotFound
	// if the camp does not exist.
	Update(ctx context.Context, camp domain.Camp) (domain.Camp, error)

	// SetAverageCost writes only the average_cost column. A nil cost clears it.
	// Returns domain.ErrNotFound if the camp does not exist.
	SetAverageCost(ctx context.Context, id uuid.UUID, cost *int) error

	// Delete removes a camp by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgCampRepo is the Postgres implementation of CampRepo.
type pgCampRepo struct {
	db db
}

// NewCampRepo constructs a CampRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCampRepo(db db) CampRepo {
	return &pgCampRepo{db: db}
}

// campColumns is the select list shared by every query that returns camps.
// The point is read back as WKB so it can be decoded with go-geom.
const campColumns = `
	id, user_id, name, slug, description, website, phone, email,
	ST_AsBinary(location_point), location_formatted_address, location_street,
	location_city, location_zipcode, location_country,
	careers, average_rating, average_cost, image, job_assistance, start_date,
	created_at, updated_at`

// Create inserts a new camp row and returns the full persisted record.
func (r *pgCampRepo) Create(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	q := `
		INSERT INTO camps (
			user_id, name, slug, description, website, phone, email,
			location_point, location_formatted_address, location_street,
			location_city, location_zipcode, location_country,
			careers, average_rating, image, job_assistance, start_date)
		VALUES (
			@user_id, @name, @slug, @description, @website, @phone, @email,
			ST_GeomFromWKB(@point::bytea, 4326)::geography, @formatted_address, @street,
			@city, @zipcode, @country,
			@careers, @average_rating, @image, @job_assistance, @start_date)
		RETURNING` + campColumns

	args, err := campArgs(camp)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.Create: %w", err)
	}
	args["user_id"] = camp.UserID
	image := camp.Image
	if image == "" {
		image = domain.DefaultCampImage
	}
	args["image"] = image

	result, err := scanCamp(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.Create: %w", translateWriteError(err))
	}
	return result, nil
}

// GetByID retrieves a camp by primary key.
func (r *pgCampRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Camp, error) {
	q := `SELECT` + campColumns + ` FROM camps WHERE id = @id`

	result, err := scanCamp(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.GetByID: %w", err)
	}
	return result, nil
}

// campFilterSQL is the WHERE clause shared by the page and count queries.
// Each condition is disabled by passing NULL for its parameter.
const campFilterSQL = `
	WHERE (@career::text IS NULL OR careers @> ARRAY[@career::text])
	  AND (@lon::float8 IS NULL OR ST_DWithin(
			location_point,
			ST_SetSRID(ST_MakePoint(@lon::float8, @lat::float8), 4326)::geography,
			@radius_m::float8))`

// ListPaged returns one page of camps ordered by created_at descending and the
// total number of camps matching filter.
func (r *pgCampRepo) ListPaged(ctx context.Context, filter domain.CampFilter, p domain.PaginationParams) ([]domain.Camp, int64, error) {
	args := pgx.NamedArgs{
		"career":   nil,
		"lon":      nil,
		"lat":      nil,
		"radius_m": nil,
		"limit":    p.Limit,
		"offset":   p.Offset(),
	}
	if filter.Career != nil {
		args["career"] = string(*filter.Career)
	}
	if filter.Near != nil {
		args["lon"] = filter.Near.Lon
		args["lat"] = filter.Near.Lat
		args["radius_m"] = filter.RadiusKm * 1000
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM camps`+campFilterSQL, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.CampRepo.ListPaged: count: %w", err)
	}

	q := `SELECT` + campColumns + ` FROM camps` + campFilterSQL + `
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CampRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	camps := []domain.Camp{}
	for rows.Next() {
		c, err := scanCamp(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.CampRepo.ListPaged: scan: %w", err)
		}
		camps = append(camps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.CampRepo.ListPaged: rows: %w", err)
	}
	return camps, total, nil
}

// Update overwrites the mutable fields of a camp and returns the updated record.
func (r *pgCampRepo) Update(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	q := `
		UPDATE camps
		SET name                       = @name,
		    slug                       = @slug,
		    description                = @description,
		    website                    = @website,
		    phone                      = @phone,
		    email                      = @email,
		    location_point             = ST_GeomFromWKB(@point::bytea, 4326)::geography,
		    location_formatted_address = @formatted_address,
		    location_street            = @street,
		    location_city              = @city,
		    location_zipcode           = @zipcode,
		    location_country           = @country,
		    careers                    = @careers,
		    average_rating             = @average_rating,
		    job_assistance             = @job_assistance,
		    start_date                 = @start_date,
		    updated_at                 = now()
		WHERE id = @id
		RETURNING` + campColumns

	args, err := campArgs(camp)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.Update: %w", err)
	}
	args["id"] = camp.ID

	result, err := scanCamp(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.Update: %w", translateWriteError(err))
	}
	return result, nil
}

// SetAverageCost writes the derived aggregate without touching any other field.
func (r *pgCampRepo) SetAverageCost(ctx context.Context, id uuid.UUID, cost *int) error {
	const q = `
		UPDATE camps
		SET average_cost = @average_cost,
		    updated_at   = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "average_cost": cost})
	if err != nil {
		return fmt.Errorf("repo.CampRepo.SetAverageCost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CampRepo.SetAverageCost: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a camp by primary key. A course still referencing the camp
// makes the delete fail with a *domain.ReferencedError on "courses".
func (r *pgCampRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM camps WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CampRepo.Delete: %w", translateDeleteError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CampRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// campArgs builds the named arguments shared by Create and Update.
func campArgs(camp domain.Camp) (pgx.NamedArgs, error) {
	loc := domain.RemoteLocation()
	if camp.Location != nil {
		loc = *camp.Location
	}
	point, err := encodePoint(loc)
	if err != nil {
		return nil, err
	}

	careers := make([]string, len(camp.Careers))
	for i, c := range camp.Careers {
		careers[i] = string(c)
	}

	return pgx.NamedArgs{
		"name":              camp.Name,
		"slug":              camp.Slug,
		"description":       camp.Description,
		"website":           camp.Website,
		"phone":             camp.Phone,
		"email":             camp.Email,
		"point":             point, // nil becomes NULL for remote camps
		"formatted_address": loc.FormattedAddress,
		"street":            loc.Street,
		"city":              loc.City,
		"zipcode":           loc.Zipcode,
		"country":           loc.Country,
		"careers":           careers,
		"average_rating":    camp.AverageRating,
		"job_assistance":    camp.JobAssistance,
		"start_date":        camp.StartDate,
	}, nil
}

// encodePoint returns the little-endian WKB for a geocoded location,
// or nil for the remote sentinel.
func encodePoint(loc domain.Location) ([]byte, error) {
	if loc.IsRemote() {
		return nil, nil
	}
	p := geom.NewPointFlat(geom.XY, []float64{loc.Longitude(), loc.Latitude()})
	b, err := wkb.Marshal(p, binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("encode point: %w", err)
	}
	return b, nil
}

// decodePoint is the inverse of encodePoint.
func decodePoint(b []byte) ([]float64, error) {
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("decode point: %w", err)
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("decode point: unexpected geometry %T", g)
	}
	return []float64{p.X(), p.Y()}, nil
}

// scanCamp maps a single database row into a domain.Camp.
// A NULL point means the camp is remote and yields the sentinel location.
func scanCamp(s scanner) (domain.Camp, error) {
	var (
		c         domain.Camp
		id        pgtype.UUID
		userID    pgtype.UUID
		point     []byte
		loc       domain.Location
		careers   []string
		rating    pgtype.Float8
		cost      pgtype.Int4
		startDate pgtype.Date
	)

	err := s.Scan(
		&id, &userID, &c.Name, &c.Slug, &c.Description, &c.Website, &c.Phone, &c.Email,
		&point, &loc.FormattedAddress, &loc.Street,
		&loc.City, &loc.Zipcode, &loc.Country,
		&careers, &rating, &cost, &c.Image, &c.JobAssistance, &startDate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Camp{}, domain.ErrNotFound
		}
		return domain.Camp{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.UserID = uuid.UUID(userID.Bytes)

	if point != nil {
		coords, err := decodePoint(point)
		if err != nil {
			return domain.Camp{}, err
		}
		loc.Type = domain.PointType
		loc.Coordinates = coords
	}
	c.Location = &loc

	c.Careers = make([]domain.Career, len(careers))
	for i, name := range careers {
		c.Careers[i] = domain.Career(name)
	}
	if rating.Valid {
		v := rating.Float64
		c.AverageRating = &v
	}
	if cost.Valid {
		v := int(cost.Int32)
		c.AverageCost = &v
	}
	if startDate.Valid {
		d := startDate.Time
		c.StartDate = &d
	}

	return c, nil
}
