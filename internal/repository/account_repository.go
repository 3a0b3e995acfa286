package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/user-service/internal/domain"
)

// ErrDuplicateEmail surfaces a unique-index violation on the email column.
// Concurrent registrations for the same email race at the index; the loser
// gets this error, never a raw driver error.
var ErrDuplicateEmail = errors.New("duplicate email")

// AccountRepository defines persistence access for accounts. The password
// hash is excluded from every read except GetCredentialByEmail.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetCredentialByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	const query = `
        INSERT INTO accounts (id, first_name, last_name, middle_initial, email, password_hash, age, gender, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.ID,
		account.FirstName,
		account.LastName,
		account.MiddleInitial,
		account.Email,
		account.PasswordHash,
		account.Age,
		account.Gender,
		account.Role,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts
        SET first_name=$1, last_name=$2, middle_initial=$3, email=$4,
            password_hash=COALESCE(NULLIF($5, ''), password_hash),
            age=$6, gender=$7, role=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.FirstName,
		account.LastName,
		account.MiddleInitial,
		account.Email,
		account.PasswordHash,
		account.Age,
		account.Gender,
		account.Role,
		account.ID,
	).Scan(&account.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, first_name, last_name, middle_initial, email, age, gender, role, created_at, updated_at
        FROM accounts WHERE id=$1`

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.FirstName,
		&account.LastName,
		&account.MiddleInitial,
		&account.Email,
		&account.Age,
		&account.Gender,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, first_name, last_name, middle_initial, email, age, gender, role, created_at, updated_at
        FROM accounts WHERE email=$1`

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.FirstName,
		&account.LastName,
		&account.MiddleInitial,
		&account.Email,
		&account.Age,
		&account.Gender,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetCredentialByEmail is the only read that includes the password hash. It
// exists solely for login verification.
func (r *accountRepository) GetCredentialByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, first_name, last_name, middle_initial, email, password_hash, age, gender, role, created_at, updated_at
        FROM accounts WHERE email=$1`

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.FirstName,
		&account.LastName,
		&account.MiddleInitial,
		&account.Email,
		&account.PasswordHash,
		&account.Age,
		&account.Gender,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	const query = `
        SELECT id, first_name, last_name, middle_initial, email, age, gender, role, created_at, updated_at
        FROM accounts ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.FirstName,
			&account.LastName,
			&account.MiddleInitial,
			&account.Email,
			&account.Age,
			&account.Gender,
			&account.Role,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, &account)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM accounts`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}
