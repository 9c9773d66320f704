// Package postgres provides a PostgreSQL-backed role repository using
// pgx/v5 connection pooling.
//
// Unlike the file backend, the database is both the index and the durable
// storage, so there is no separate staleness signal: ReloadIfNeeded is a
// no-op and every read observes the committed state.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xraph/bastion/role"
)

// Compile-time interface check.
var _ role.Repository = (*Repository)(nil)

// Config holds connection settings for the repository.
type Config struct {
	// DSN is the PostgreSQL connection string.
	DSN string

	// MaxConns bounds the connection pool. Zero keeps the pgx default.
	MaxConns int32

	// MigrateOnStart applies the schema on Start.
	MigrateOnStart bool
}

// Repository is a PostgreSQL-backed role.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// New creates a repository and verifies connectivity. Call Start before use.
func New(ctx context.Context, cfg Config) (*Repository, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, nil
}

// Start verifies connectivity and optionally applies the schema.
func (r *Repository) Start(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if r.cfg.MigrateOnStart {
		if err := r.Migrate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Migrate applies the role schema.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bastion_roles (
			name TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS bastion_role_members (
			role_name TEXT NOT NULL REFERENCES bastion_roles(name) ON DELETE CASCADE,
			principal TEXT NOT NULL,
			PRIMARY KEY (role_name, principal)
		);
		CREATE INDEX IF NOT EXISTS bastion_role_members_principal_idx
			ON bastion_role_members (principal);
	`)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Repository) Close() { r.pool.Close() }

// ReloadIfNeeded is a no-op; the database is the source of truth.
func (r *Repository) ReloadIfNeeded(_ context.Context) error { return nil }

func (r *Repository) Create(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO bastion_roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("%w: %v", role.ErrDurability, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("role %q: %w", name, role.ErrAlreadyExists)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bastion_roles WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("%w: %v", role.ErrDurability, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	return nil
}

func (r *Repository) AddMember(ctx context.Context, name, principal string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bastion_role_members (role_name, principal)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`, name, principal)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("role %q: %w", name, role.ErrNotFound)
		}
		return fmt.Errorf("%w: %v", role.ErrDurability, err)
	}
	return nil
}

func (r *Repository) RemoveMember(ctx context.Context, name, principal string) error {
	if _, err := r.Get(ctx, name); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `
		DELETE FROM bastion_role_members WHERE role_name = $1 AND principal = $2`,
		name, principal)
	if err != nil {
		return fmt.Errorf("%w: %v", role.ErrDurability, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, name string) (role.Record, error) {
	var got string
	err := r.pool.QueryRow(ctx,
		`SELECT name FROM bastion_roles WHERE name = $1`, name).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return role.Record{}, fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	if err != nil {
		return role.Record{}, fmt.Errorf("querying role: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT principal FROM bastion_role_members
		WHERE role_name = $1 ORDER BY principal`, name)
	if err != nil {
		return role.Record{}, fmt.Errorf("querying members: %w", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return role.Record{}, fmt.Errorf("scanning members: %w", err)
	}
	return role.NewRecord(name, members...), nil
}

func (r *Repository) List(ctx context.Context) ([]role.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.name, m.principal
		FROM bastion_roles r
		LEFT JOIN bastion_role_members m ON m.role_name = r.name
		ORDER BY r.name, m.principal`)
	if err != nil {
		return nil, fmt.Errorf("querying roles: %w", err)
	}
	defer rows.Close()

	var records []role.Record
	for rows.Next() {
		var name string
		var principal *string
		if err := rows.Scan(&name, &principal); err != nil {
			return nil, fmt.Errorf("scanning roles: %w", err)
		}
		if len(records) == 0 || records[len(records)-1].Name != name {
			records = append(records, role.NewRecord(name))
		}
		if principal != nil {
			last := &records[len(records)-1]
			*last = last.WithMember(*principal)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading roles: %w", err)
	}
	return records, nil
}

func (r *Repository) RolesFor(ctx context.Context, principal string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role_name FROM bastion_role_members
		WHERE principal = $1 ORDER BY role_name`, principal)
	if err != nil {
		return nil, fmt.Errorf("querying memberships: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning memberships: %w", err)
	}
	return names, nil
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
