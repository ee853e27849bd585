package location

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL location repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const locationColumns = `
	id, name, country, city, location_code, is_anchor, created_at, updated_at
`

// Get retrieves a location by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	return r.scanLocation(ctx, query, id)
}

// GetByCode retrieves a location by its unique code.
func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE location_code = $1`
	return r.scanLocation(ctx, query, code)
}

func (r *PostgresRepository) scanLocation(ctx context.Context, query string, args ...interface{}) (*Location, error) {
	var loc Location

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Country,
		&loc.City,
		&loc.Code,
		&loc.IsAnchor,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	return &loc, nil
}

// ListByCity retrieves all locations in the given city, case-insensitively.
func (r *PostgresRepository) ListByCity(ctx context.Context, city string) ([]*Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE LOWER(city) = LOWER($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLocations(rows)
}

// List retrieves locations ordered by creation time with offset pagination.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&total); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + locationColumns + `
		FROM locations
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanLocations(rows)
	if err != nil {
		return nil, err
	}

	return &ListResult{Items: items, Total: total}, nil
}

func scanLocations(rows pgx.Rows) ([]*Location, error) {
	var locations []*Location
	for rows.Next() {
		var loc Location
		err := rows.Scan(
			&loc.ID,
			&loc.Name,
			&loc.Country,
			&loc.City,
			&loc.Code,
			&loc.IsAnchor,
			&loc.CreatedAt,
			&loc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		locations = append(locations, &loc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}

// Create creates a new location.
func (r *PostgresRepository) Create(ctx context.Context, loc *Location) error {
	query := `
		INSERT INTO locations (
			id, name, country, city, location_code, is_anchor, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		loc.ID,
		loc.Name,
		loc.Country,
		loc.City,
		loc.Code,
		loc.IsAnchor,
		loc.CreatedAt,
		loc.UpdatedAt,
	)
	return err
}

// Update updates an existing location.
func (r *PostgresRepository) Update(ctx context.Context, loc *Location) error {
	query := `
		UPDATE locations SET
			name = $2,
			country = $3,
			city = $4,
			location_code = $5,
			is_anchor = $6,
			updated_at = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		loc.ID,
		loc.Name,
		loc.Country,
		loc.City,
		loc.Code,
		loc.IsAnchor,
		loc.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrLocationNotFound
	}

	return nil
}

// Delete deletes a location by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM locations WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrLocationNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
