package transportation

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

// NewPostgresRepository creates a new PostgreSQL transportation repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// edgeSelect joins both endpoint locations so edges come back fully resolved.
const edgeSelect = `
	SELECT
		t.id, t.transportation_type, t.operating_days, t.created_at, t.updated_at,
		o.id, o.name, o.country, o.city, o.location_code, o.is_anchor, o.created_at, o.updated_at,
		d.id, d.name, d.country, d.city, d.location_code, d.is_anchor, d.created_at, d.updated_at
	FROM transportations t
	JOIN locations o ON o.id = t.origin_location_id
	JOIN locations d ON d.id = t.destination_location_id
`

// Get retrieves an edge by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Edge, error) {
	query := edgeSelect + ` WHERE t.id = $1`
	return r.scanEdge(r.pool.QueryRow(ctx, query, id))
}

// FindByEndpointsAndKind retrieves the edge for the (origin, destination, kind) triple.
func (r *PostgresRepository) FindByEndpointsAndKind(ctx context.Context, originID, destinationID string, kind Kind) (*Edge, error) {
	query := edgeSelect + `
		WHERE t.origin_location_id = $1
		  AND t.destination_location_id = $2
		  AND t.transportation_type = $3
	`
	return r.scanEdge(r.pool.QueryRow(ctx, query, originID, destinationID, string(kind)))
}

func (r *PostgresRepository) scanEdge(row pgx.Row) (*Edge, error) {
	var e Edge

	err := row.Scan(
		&e.ID, &e.Kind, &e.OperatingDays, &e.CreatedAt, &e.UpdatedAt,
		&e.Origin.ID, &e.Origin.Name, &e.Origin.Country, &e.Origin.City,
		&e.Origin.Code, &e.Origin.IsAnchor, &e.Origin.CreatedAt, &e.Origin.UpdatedAt,
		&e.Destination.ID, &e.Destination.Name, &e.Destination.Country, &e.Destination.City,
		&e.Destination.Code, &e.Destination.IsAnchor, &e.Destination.CreatedAt, &e.Destination.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransportationNotFound
		}
		return nil, err
	}

	return &e, nil
}

func (r *PostgresRepository) queryEdges(ctx context.Context, query string, args ...interface{}) ([]*Edge, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []*Edge
	for rows.Next() {
		var e Edge
		err := rows.Scan(
			&e.ID, &e.Kind, &e.OperatingDays, &e.CreatedAt, &e.UpdatedAt,
			&e.Origin.ID, &e.Origin.Name, &e.Origin.Country, &e.Origin.City,
			&e.Origin.Code, &e.Origin.IsAnchor, &e.Origin.CreatedAt, &e.Origin.UpdatedAt,
			&e.Destination.ID, &e.Destination.Name, &e.Destination.Country, &e.Destination.City,
			&e.Destination.Code, &e.Destination.IsAnchor, &e.Destination.CreatedAt, &e.Destination.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		edges = append(edges, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return edges, nil
}

// List retrieves edges ordered by creation time, optionally filtered by endpoint.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	filter := `
		WHERE ($1 = '' OR t.origin_location_id = $1)
		  AND ($2 = '' OR t.destination_location_id = $2)
	`

	var total int
	countQuery := `SELECT COUNT(*) FROM transportations t` + filter
	if err := r.pool.QueryRow(ctx, countQuery, opts.OriginID, opts.DestinationID).Scan(&total); err != nil {
		return nil, err
	}

	query := edgeSelect + filter + `
		ORDER BY t.created_at, t.id
		LIMIT $3 OFFSET $4
	`

	items, err := r.queryEdges(ctx, query, opts.OriginID, opts.DestinationID, limit, opts.Offset)
	if err != nil {
		return nil, err
	}

	return &ListResult{Items: items, Total: total}, nil
}

// FindFlights retrieves FLIGHT edges between the two anchor sets on the weekday.
func (r *PostgresRepository) FindFlights(ctx context.Context, originIDs, destinationIDs []string, weekday int) ([]*Edge, error) {
	if len(originIDs) == 0 || len(destinationIDs) == 0 {
		return nil, nil
	}

	query := edgeSelect + `
		WHERE t.origin_location_id = ANY($1)
		  AND t.destination_location_id = ANY($2)
		  AND t.transportation_type = $3
		  AND $4 = ANY(t.operating_days)
		ORDER BY t.id
	`

	return r.queryEdges(ctx, query, originIDs, destinationIDs, string(KindFlight), weekday)
}

// GroundTransfersTo retrieves non-FLIGHT edges from the city into the anchor on the weekday.
func (r *PostgresRepository) GroundTransfersTo(ctx context.Context, originCity, anchorID string, weekday int) ([]*Edge, error) {
	query := edgeSelect + `
		WHERE LOWER(o.city) = LOWER($1)
		  AND t.destination_location_id = $2
		  AND t.transportation_type <> $3
		  AND $4 = ANY(t.operating_days)
		ORDER BY t.id
	`

	return r.queryEdges(ctx, query, originCity, anchorID, string(KindFlight), weekday)
}

// GroundTransfersFrom retrieves non-FLIGHT edges from the anchor into the city on the weekday.
func (r *PostgresRepository) GroundTransfersFrom(ctx context.Context, anchorID, destinationCity string, weekday int) ([]*Edge, error) {
	query := edgeSelect + `
		WHERE t.origin_location_id = $1
		  AND LOWER(d.city) = LOWER($2)
		  AND t.transportation_type <> $3
		  AND $4 = ANY(t.operating_days)
		ORDER BY t.id
	`

	return r.queryEdges(ctx, query, anchorID, destinationCity, string(KindFlight), weekday)
}

// UnionOperatingDays returns the distinct union of FLIGHT operating days
// between the two anchor sets.
func (r *PostgresRepository) UnionOperatingDays(ctx context.Context, originIDs, destinationIDs []string) ([]int, error) {
	if len(originIDs) == 0 || len(destinationIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT day
		FROM transportations t, UNNEST(t.operating_days) AS day
		WHERE t.origin_location_id = ANY($1)
		  AND t.destination_location_id = ANY($2)
		  AND t.transportation_type = $3
		ORDER BY day
	`

	rows, err := r.pool.Query(ctx, query, originIDs, destinationIDs, string(KindFlight))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []int
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

// Create creates a new edge.
func (r *PostgresRepository) Create(ctx context.Context, edge *Edge) error {
	query := `
		INSERT INTO transportations (
			id, origin_location_id, destination_location_id,
			transportation_type, operating_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		edge.ID,
		edge.Origin.ID,
		edge.Destination.ID,
		string(edge.Kind),
		edge.OperatingDays,
		edge.CreatedAt,
		edge.UpdatedAt,
	)
	return err
}

// Update updates an existing edge.
func (r *PostgresRepository) Update(ctx context.Context, edge *Edge) error {
	query := `
		UPDATE transportations SET
			origin_location_id = $2,
			destination_location_id = $3,
			transportation_type = $4,
			operating_days = $5,
			updated_at = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		edge.ID,
		edge.Origin.ID,
		edge.Destination.ID,
		string(edge.Kind),
		edge.OperatingDays,
		edge.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTransportationNotFound
	}

	return nil
}

// Delete deletes an edge by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM transportations WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTransportationNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
