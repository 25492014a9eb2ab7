package stubserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const uniqueViolationCode = "23505"

const accountsSchema = `
CREATE TABLE IF NOT EXISTS stub_accounts (
    id           TEXT PRIMARY KEY,
    full_name    TEXT NOT NULL,
    username     TEXT NOT NULL UNIQUE,
    email        TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    company_name TEXT NOT NULL DEFAULT '',
    role         TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type postgresRegistry struct {
	pool *pgxpool.Pool
}

// NewPostgresRegistry connects a pool and ensures the accounts table
// exists, so stub signups survive restarts.
func NewPostgresRegistry(ctx context.Context, dsn string, logger *zap.Logger) (AccountRegistry, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, accountsSchema); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create accounts table: %w", err)
	}

	logger.Info("connected to postgres for stub accounts")
	return &postgresRegistry{pool: pool}, pool.Close, nil
}

func (r *postgresRegistry) Create(ctx context.Context, account *Account) error {
	const query = `
        INSERT INTO stub_accounts (id, full_name, username, email, password_hash, company_name, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`

	account.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx, query,
		account.ID,
		account.FullName,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.CompanyName,
		account.Role,
	).Scan(&account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrAccountExists
		}
		return err
	}
	return nil
}

func (r *postgresRegistry) GetByUsername(ctx context.Context, username string) (*Account, error) {
	const query = `
        SELECT id, full_name, username, email, password_hash, company_name, role, created_at
        FROM stub_accounts
        WHERE username = $1`

	var account Account
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&account.ID,
		&account.FullName,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.CompanyName,
		&account.Role,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
