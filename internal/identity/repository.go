package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, account Account) error
	FindByEmail(ctx context.Context, email string) (Account, error)
	// FindByEmailOrUsername matches the value against either column, the
	// lookup the login form uses.
	FindByEmailOrUsername(ctx context.Context, value string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (Account, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, username, password_hash, verified, full_name, mobile_number, bio, city, state, created_at`

// Create inserts a new account. The unique index on email is the arbiter
// for concurrent verifications of the same address.
func (r *PostgresRepository) Create(ctx context.Context, account Account) error {
	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (`+accountColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		accountID, account.Email, account.Username, account.HashedPassword, account.Verified,
		account.FullName, account.MobileNumber, account.Bio, account.City, account.State,
		account.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}

// FindByEmail fetches an account by contact address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// FindByEmailOrUsername fetches an account matching the value against either field.
func (r *PostgresRepository) FindByEmailOrUsername(ctx context.Context, value string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1 OR username = $1`, value)
	return scanAccount(row)
}

// FindByID fetches an account by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID)
	return scanAccount(row)
}

// UpdateProfile overwrites the mutable profile fields and returns the result.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (Account, error) {
	account, err := r.FindByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	account.applyProfile(update)
	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return Account{}, err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE accounts
        SET full_name = $1, mobile_number = $2, bio = $3, city = $4, state = $5
        WHERE id = $6`,
		account.FullName, account.MobileNumber, account.Bio, account.City, account.State, accountID)
	if err != nil {
		return Account{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Account{}, ErrNotFound
	}
	return account, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		account   Account
	)
	err := row.Scan(&id, &account.Email, &account.Username, &account.HashedPassword, &account.Verified,
		&account.FullName, &account.MobileNumber, &account.Bio, &account.City, &account.State, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	account.ID = id.String()
	account.CreatedAt = createdAt.UTC()
	return account, nil
}

func (a *Account) applyProfile(update ProfileUpdate) {
	if update.FullName != "" {
		a.FullName = update.FullName
	}
	if update.MobileNumber != "" {
		a.MobileNumber = update.MobileNumber
	}
	if update.Bio != "" {
		a.Bio = update.Bio
	}
	if update.City != "" {
		a.City = update.City
	}
	if update.State != "" {
		a.State = update.State
	}
}
