package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrEmailTaken    = errors.New("email already in use")
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const agentColumns = "id, number, full_name, email, role, created_at"

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(&a.ID, &a.Number, &a.FullName, &a.Email, &a.Role, &a.CreatedAt)
	return a, err
}

func (r *Repo) Create(ctx context.Context, number, fullName, email, passwordHash string, role Role) (Agent, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO agents (number, full_name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+agentColumns,
		number, fullName, email, passwordHash, role)

	agent, err := scanAgent(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Agent{}, ErrEmailTaken
		}
		return Agent{}, fmt.Errorf("create agent: %w", err)
	}
	return agent, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (Agent, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)

	agent, err := scanAgent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, ErrAgentNotFound
		}
		return Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return agent, nil
}

// GetByEmail returns the agent together with its stored password hash.
// The hash is only ever handed to the login flow.
func (r *Repo) GetByEmail(ctx context.Context, email string) (Agent, string, error) {
	var (
		a    Agent
		hash string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, number, full_name, email, role, created_at, password_hash
		 FROM agents WHERE email = $1`, email).
		Scan(&a.ID, &a.Number, &a.FullName, &a.Email, &a.Role, &a.CreatedAt, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, "", ErrAgentNotFound
		}
		return Agent{}, "", fmt.Errorf("get agent by email: %w", err)
	}
	return a, hash, nil
}

func (r *Repo) List(ctx context.Context) ([]Agent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+agentColumns+` FROM agents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var result []Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		result = append(result, agent)
	}
	return result, rows.Err()
}

// Update rewrites only the supplied columns and returns the new row.
func (r *Repo) Update(ctx context.Context, id int64, number, fullName, email, passwordHash *string, role *Role) (Agent, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE agents SET
			number        = COALESCE($2, number),
			full_name     = COALESCE($3, full_name),
			email         = COALESCE($4, email),
			password_hash = COALESCE($5, password_hash),
			role          = COALESCE($6, role)
		 WHERE id = $1
		 RETURNING `+agentColumns,
		id, number, fullName, email, passwordHash, role)

	agent, err := scanAgent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, ErrAgentNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Agent{}, ErrEmailTaken
		}
		return Agent{}, fmt.Errorf("update agent: %w", err)
	}
	return agent, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAgentNotFound
	}
	return nil
}
