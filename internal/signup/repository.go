package signup

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists pending signups, one live slot per email.
type Repository interface {
	// Upsert writes the slot for the email, replacing any prior one.
	Upsert(ctx context.Context, pending PendingSignup) error
	// Find returns the slot for the email, ErrNoPending if absent. Expiry
	// is not checked here; callers decide what an expired slot means.
	Find(ctx context.Context, email string) (PendingSignup, error)
	// Delete removes the slot. Deleting an absent slot is not an error.
	Delete(ctx context.Context, email string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed pending-signup repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert replaces the per-email slot atomically via ON CONFLICT, which keeps
// the one-live-signup-per-email invariant inside the database.
func (r *PostgresRepository) Upsert(ctx context.Context, pending PendingSignup) error {
	_, err := r.db.Exec(ctx, `INSERT INTO pending_signups (email, username, password_hash, code, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (email) DO UPDATE
        SET username = EXCLUDED.username,
            password_hash = EXCLUDED.password_hash,
            code = EXCLUDED.code,
            expires_at = EXCLUDED.expires_at`,
		pending.Email, pending.Username, pending.HashedPassword, pending.Code, pending.ExpiresAt.UTC())
	return err
}

// Find fetches the slot for the email.
func (r *PostgresRepository) Find(ctx context.Context, email string) (PendingSignup, error) {
	row := r.db.QueryRow(ctx, `SELECT email, username, password_hash, code, expires_at
        FROM pending_signups WHERE email = $1`, email)
	var (
		pending   PendingSignup
		expiresAt time.Time
	)
	err := row.Scan(&pending.Email, &pending.Username, &pending.HashedPassword, &pending.Code, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PendingSignup{}, ErrNoPending
	}
	if err != nil {
		return PendingSignup{}, err
	}
	pending.ExpiresAt = expiresAt.UTC()
	return pending, nil
}

// Delete removes the slot for the email.
func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM pending_signups WHERE email = $1`, email)
	return err
}
