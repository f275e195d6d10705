package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSessionNotFound = errors.New("call session not found")

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const sessionColumns = "id, agent_id, client_type, reason, ai_query, result, final_status, created_at"

func scanSession(row pgx.Row) (Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.AgentID, &s.ClientType, &s.Reason, &s.AIQuery, &s.Result, &s.FinalStatus, &s.CreatedAt)
	return s, err
}

func (r *Repo) Create(ctx context.Context, agentID int64, params CreateParams) (Session, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO call_sessions (agent_id, client_type, reason, ai_query, result, final_status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+sessionColumns,
		agentID, params.ClientType, params.Reason, params.AIQuery, params.Result, params.FinalStatus)

	session, err := scanSession(row)
	if err != nil {
		return Session{}, fmt.Errorf("create call session: %w", err)
	}
	return session, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM call_sessions WHERE id = $1`, id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("get call session: %w", err)
	}
	return session, nil
}

func (r *Repo) List(ctx context.Context, filter Filter) ([]Session, error) {
	var (
		conds []string
		args  []any
	)
	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		conds = append(conds, fmt.Sprintf("agent_id = $%d", len(args)))
	}
	if filter.ClientType != nil {
		args = append(args, *filter.ClientType)
		conds = append(conds, fmt.Sprintf("client_type = $%d", len(args)))
	}
	if filter.FinalStatus != nil {
		args = append(args, *filter.FinalStatus)
		conds = append(conds, fmt.Sprintf("final_status = $%d", len(args)))
	}

	query := `SELECT ` + sessionColumns + ` FROM call_sessions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list call sessions: %w", err)
	}
	defer rows.Close()

	var result []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan call session: %w", err)
		}
		result = append(result, session)
	}
	return result, rows.Err()
}

// Update replaces the descriptive fields; result and final_status are
// only touched when supplied, matching how calls are wrapped up after
// the fact.
func (r *Repo) Update(ctx context.Context, id int64, params CreateParams) (Session, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE call_sessions SET
			client_type  = $2,
			reason       = $3,
			ai_query     = $4,
			result       = COALESCE($5, result),
			final_status = COALESCE($6, final_status)
		 WHERE id = $1
		 RETURNING `+sessionColumns,
		id, params.ClientType, params.Reason, params.AIQuery, params.Result, params.FinalStatus)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("update call session: %w", err)
	}
	return session, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM call_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete call session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}
