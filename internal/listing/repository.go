package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists listings.
type Repository interface {
	Create(ctx context.Context, listing Listing) error
	Get(ctx context.Context, id string) (Listing, error)
	List(ctx context.Context, filter Filter) ([]Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Listing, error)
	Update(ctx context.Context, listing Listing) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed listing repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const listingColumns = `id, owner_id, title, price, location, description, type, category, created_at`

// Create inserts a new listing.
func (r *PostgresRepository) Create(ctx context.Context, listing Listing) error {
	listingID, err := uuid.Parse(listing.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(listing.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO listings (`+listingColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		listingID, ownerID, listing.Title, listing.Price, listing.Location,
		listing.Description, listing.Type, listing.Category, listing.CreatedAt.UTC())
	return err
}

// Get fetches a listing by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Listing, error) {
	listingID, err := uuid.Parse(id)
	if err != nil {
		return Listing{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, listingID)
	return scanListing(row)
}

// List returns listings matching the filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]Listing, error) {
	rows, err := r.db.Query(ctx, `SELECT `+listingColumns+` FROM listings
        WHERE ($1 = '' OR type = $1)
          AND ($2 = '' OR category = $2)
          AND ($3 = '' OR location ILIKE '%' || $3 || '%')
        ORDER BY created_at DESC`,
		filter.Type, filter.Category, filter.Location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// ListByOwner returns all listings owned by the account, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Listing, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT `+listingColumns+` FROM listings
        WHERE owner_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// Update overwrites the mutable listing fields. OwnerID is never written.
func (r *PostgresRepository) Update(ctx context.Context, listing Listing) error {
	listingID, err := uuid.Parse(listing.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE listings
        SET title = $1, price = $2, location = $3, description = $4, type = $5, category = $6
        WHERE id = $7`,
		listing.Title, listing.Price, listing.Location, listing.Description,
		listing.Type, listing.Category, listingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the listing.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	listingID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM listings WHERE id = $1`, listingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanListing(row pgx.Row) (Listing, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
		listing   Listing
	)
	err := row.Scan(&id, &ownerID, &listing.Title, &listing.Price, &listing.Location,
		&listing.Description, &listing.Type, &listing.Category, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	if err != nil {
		return Listing{}, err
	}
	listing.ID = id.String()
	listing.OwnerID = ownerID.String()
	listing.CreatedAt = createdAt.UTC()
	return listing, nil
}

func collectListings(rows pgx.Rows) ([]Listing, error) {
	var listings []Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}
