package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/wanderon/auth-service/pkg/domain"
)

const uniqueViolation = "23505"

// UsersRepository persists user records in Postgres. Lockout counter
// mutations are single-statement atomic updates so concurrent login
// attempts against the same account cannot lose counts.
type UsersRepository struct {
	db *sql.DB
}

// NewUsersRepository creates a new users repository.
func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// userColumns is the default projection. The password hash is excluded
// unless a verification path asks for it explicitly.
const userColumns = `id, first_name, last_name, username, email, role, is_active,
       login_attempts, lock_until, created_at, last_login`

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email,
		&user.Role, &user.IsActive, &user.LoginAttempts, &user.LockUntil,
		&user.CreatedAt, &user.LastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user. Unique-index violations are translated to
// *domain.DuplicateFieldError naming the conflicting field, which covers
// the race where two registrations pass the pre-insert checks together.
func (r *UsersRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, username, email, password_hash,
		                   role, is_active, login_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Username, user.Email,
		user.PasswordHash, user.Role, user.IsActive, user.LoginAttempts, user.CreatedAt,
	)
	return translateUniqueViolation(err)
}

func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case "users_email_key":
			return &domain.DuplicateFieldError{Field: "email"}
		case "users_username_key":
			return &domain.DuplicateFieldError{Field: "username"}
		}
	}
	return err
}

// GetByID retrieves a user by ID without the password hash.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByIdentifier retrieves a user by email (case-insensitive) or
// username (case-sensitive) in a single disjunctive lookup. The password
// hash is included for verification.
func (r *UsersRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `, password_hash
		FROM users
		WHERE LOWER(email) = LOWER($1) OR username = $1
	`
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, identifier).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email,
		&user.Role, &user.IsActive, &user.LoginAttempts, &user.LockUntil,
		&user.CreatedAt, &user.LastLogin, &user.PasswordHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// PasswordHashByID retrieves only the stored digest.
func (r *UsersRepository) PasswordHashByID(ctx context.Context, id uuid.UUID) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = $1`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrUserNotFound
	}
	return hash, err
}

// ExistsByEmail checks if a user exists by email, case-insensitively.
func (r *UsersRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	return exists, err
}

// ExistsByUsername checks if a user exists by username.
func (r *UsersRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// ExistsByEmailOtherThan checks if a different account already owns the
// email.
func (r *UsersRepository) ExistsByEmailOtherThan(ctx context.Context, email string, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2)`,
		email, id).Scan(&exists)
	return exists, err
}

// ExistsByUsernameOtherThan checks if a different account already owns
// the username.
func (r *UsersRepository) ExistsByUsernameOtherThan(ctx context.Context, username string, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		username, id).Scan(&exists)
	return exists, err
}

// UpdateProfile patches username and/or email; nil fields are left
// untouched. Returns the updated user without the password hash.
func (r *UsersRepository) UpdateProfile(ctx context.Context, id uuid.UUID, username, email *string) (*domain.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email)
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, username, email))
	if err != nil {
		return nil, translateUniqueViolation(err)
	}
	return user, nil
}

// UpdatePassword replaces the stored digest.
func (r *UsersRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// RecordFailedAttempt atomically increments the attempt counter and, when
// the post-increment count reaches the threshold on an account that is
// not already locked, sets the lock timestamp in the same update.
func (r *UsersRepository) RecordFailedAttempt(ctx context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) error {
	query := `
		UPDATE users
		SET login_attempts = login_attempts + 1,
		    lock_until = CASE
		        WHEN login_attempts + 1 >= $2
		             AND (lock_until IS NULL OR lock_until <= NOW())
		        THEN NOW() + make_interval(secs => $3)
		        ELSE lock_until
		    END
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, maxAttempts, lockFor.Seconds())
	return err
}

// ResetLockout zeroes the attempt counter and clears the lock in one
// update.
func (r *UsersRepository) ResetLockout(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET login_attempts = 0, lock_until = NULL WHERE id = $1`, id)
	return err
}

// UpdateLastLogin stamps the last successful authentication.
func (r *UsersRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	return err
}

// Delete permanently removes the user record. No soft-delete.
func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// List returns all users without password hashes, oldest first.
func (r *UsersRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		err := rows.Scan(
			&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email,
			&user.Role, &user.IsActive, &user.LoginAttempts, &user.LockUntil,
			&user.CreatedAt, &user.LastLogin,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
