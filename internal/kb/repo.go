package kb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEntryNotFound = errors.New("knowledge base entry not found")

// Entry is one question/answer pair agents can pull up during a call.
type Entry struct {
	ID        int64
	Question  string
	Answer    string
	Category  *string
	CreatedAt time.Time
}

type UpdateParams struct {
	Question *string
	Answer   *string
	Category *string
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const entryColumns = "id, question, answer, category, created_at"

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Question, &e.Answer, &e.Category, &e.CreatedAt)
	return e, err
}

func (r *Repo) Create(ctx context.Context, question, answer string, category *string) (Entry, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO kb_entries (question, answer, category)
		 VALUES ($1, $2, $3)
		 RETURNING `+entryColumns,
		question, answer, category)

	entry, err := scanEntry(row)
	if err != nil {
		return Entry{}, fmt.Errorf("create kb entry: %w", err)
	}
	return entry, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (Entry, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM kb_entries WHERE id = $1`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, fmt.Errorf("get kb entry: %w", err)
	}
	return entry, nil
}

func (r *Repo) List(ctx context.Context, category *string) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM kb_entries`
	var args []any
	if category != nil {
		query += ` WHERE category = $1`
		args = append(args, *category)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list kb entries: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kb entry: %w", err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id int64, params UpdateParams) (Entry, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE kb_entries SET
			question = COALESCE($2, question),
			answer   = COALESCE($3, answer),
			category = COALESCE($4, category)
		 WHERE id = $1
		 RETURNING `+entryColumns,
		id, params.Question, params.Answer, params.Category)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, fmt.Errorf("update kb entry: %w", err)
	}
	return entry, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kb_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete kb entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
