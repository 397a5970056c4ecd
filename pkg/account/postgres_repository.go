package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/danohq/portfolio-auth/pkg/password"
)

// DBTX is the subset of pgx operations the repository needs; both
// *pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PostgresRepository implements Repository on PostgreSQL. The
// failed-attempt counter is maintained with a single conditional UPDATE
// so concurrent failures cannot under-count.
type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a new PostgreSQL-backed account repository
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const getByUsernameSQL = `
SELECT id, username, email, password_hash, password_version, role,
       failed_attempts, locked_until, last_failed_at, created_at
FROM accounts
WHERE username = $1`

// GetByUsername retrieves an account by its exact username
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (Account, error) {
	return r.scanAccount(r.db.QueryRow(ctx, getByUsernameSQL, username))
}

const getByIDSQL = `
SELECT id, username, email, password_hash, password_version, role,
       failed_attempts, locked_until, last_failed_at, created_at
FROM accounts
WHERE id = $1`

// GetByID retrieves an account by id
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	return r.scanAccount(r.db.QueryRow(ctx, getByIDSQL, id))
}

// HasAnyAccounts reports whether any account exists
func (r *PostgresRepository) HasAnyAccounts(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts)`).Scan(&exists)
	return exists, err
}

const createFirstSQL = `
INSERT INTO accounts (id, username, email, password_hash, password_version, role)
SELECT $1, $2, $3, $4, $5, $6
WHERE NOT EXISTS (SELECT 1 FROM accounts)
RETURNING created_at`

// CreateFirst creates the initial account. The NOT EXISTS guard runs in
// the same statement as the insert, so two concurrent setup calls
// cannot both succeed.
func (r *PostgresRepository) CreateFirst(ctx context.Context, params CreateParams) (Account, error) {
	id := uuid.New()

	var createdAt time.Time
	err := r.db.QueryRow(ctx, createFirstSQL,
		id, params.Username, params.Email, params.PasswordHash,
		int32(params.PasswordVersion), params.Role,
	).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrSetupComplete
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return Account{}, ErrEmailExists{Email: params.Email}
			}
			return Account{}, ErrUsernameExists{Username: params.Username}
		}
		return Account{}, err
	}

	return Account{
		ID:              id,
		Username:        params.Username,
		Email:           params.Email,
		PasswordHash:    params.PasswordHash,
		PasswordVersion: params.PasswordVersion,
		Role:            params.Role,
		CreatedAt:       createdAt,
	}, nil
}

const recordFailedAttemptSQL = `
UPDATE accounts
SET failed_attempts = failed_attempts + 1,
    last_failed_at = now(),
    locked_until = CASE
        WHEN failed_attempts + 1 >= $2 THEN now() + make_interval(secs => $3)
        ELSE locked_until
    END
WHERE username = $1
  AND (locked_until IS NULL OR locked_until <= now())
RETURNING failed_attempts, locked_until`

// RecordFailedAttempt increments the counter and sets the lock window
// when the new count reaches threshold, all in one statement. The WHERE
// guard skips accounts whose lock is still running, so a lock is never
// extended by further attempts.
func (r *PostgresRepository) RecordFailedAttempt(ctx context.Context, username string, threshold int32, lockDuration time.Duration) (LockState, error) {
	var (
		attempts    int32
		lockedUntil pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, recordFailedAttemptSQL,
		username, threshold, lockDuration.Seconds(),
	).Scan(&attempts, &lockedUntil)
	if err == nil {
		return LockState{FailedAttempts: attempts, LockedUntil: lockedUntil.Time}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return LockState{}, err
	}

	// No row updated: the account does not exist or is already locked.
	// Report the stored state in the latter case.
	return r.GetLockState(ctx, username)
}

const resetFailedAttemptsSQL = `
UPDATE accounts
SET failed_attempts = 0,
    last_failed_at = NULL,
    locked_until = NULL
WHERE username = $1`

// ResetFailedAttempts zeroes the counter and clears any lock
func (r *PostgresRepository) ResetFailedAttempts(ctx context.Context, username string) error {
	tag, err := r.db.Exec(ctx, resetFailedAttemptsSQL, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// GetLockState reads the stored lockout counters for an account
func (r *PostgresRepository) GetLockState(ctx context.Context, username string) (LockState, error) {
	var (
		attempts    int32
		lockedUntil pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx,
		`SELECT failed_attempts, locked_until FROM accounts WHERE username = $1`,
		username,
	).Scan(&attempts, &lockedUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LockState{}, ErrAccountNotFound
		}
		return LockState{}, err
	}
	return LockState{FailedAttempts: attempts, LockedUntil: lockedUntil.Time}, nil
}

func (r *PostgresRepository) scanAccount(row pgx.Row) (Account, error) {
	var (
		acct            Account
		passwordVersion int32
		lockedUntil     pgtype.Timestamptz
		lastFailedAt    pgtype.Timestamptz
	)
	err := row.Scan(
		&acct.ID, &acct.Username, &acct.Email, &acct.PasswordHash,
		&passwordVersion, &acct.Role, &acct.FailedAttempts,
		&lockedUntil, &lastFailedAt, &acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	acct.PasswordVersion = password.Version(passwordVersion)
	acct.LockedUntil = lockedUntil.Time
	acct.LastFailedAt = lastFailedAt.Time
	return acct, nil
}
