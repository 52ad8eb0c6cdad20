package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Note is a comment on an action.
type Note struct {
	ID          int64
	ActionID    int64
	AuthorID    string
	AuthorName  string // read-only, joined from users
	Description string
	Hidden      bool
	CreatedAt   time.Time
}

type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	FindByID(ctx context.Context, id int64) (*Note, error)
	FindByAction(ctx context.Context, actionID int64) ([]*Note, error)
	Update(ctx context.Context, note *Note) error
}

type pgNoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &pgNoteRepository{pool: pool}
}

const noteSelect = `
	SELECT n.id, n.action, COALESCE(n.author, ''),
		COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''),
		n.description, n.hidden, n.created_at
	FROM notes n
	LEFT JOIN users u ON u.id = n.author
`

func (r *pgNoteRepository) Create(ctx context.Context, note *Note) error {
	query := `
		INSERT INTO notes (action, author, description, hidden)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, note.ActionID, note.AuthorID, note.Description, note.Hidden).
		Scan(&note.ID, &note.CreatedAt)
}

func (r *pgNoteRepository) FindByID(ctx context.Context, id int64) (*Note, error) {
	n := &Note{}
	err := scanNote(r.pool.QueryRow(ctx, noteSelect+` WHERE n.id = $1`, id), n)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *pgNoteRepository) FindByAction(ctx context.Context, actionID int64) ([]*Note, error) {
	rows, err := r.pool.Query(ctx, noteSelect+` WHERE n.action = $1 ORDER BY n.created_at, n.id`, actionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		n := &Note{}
		if err := scanNote(rows, n); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *pgNoteRepository) Update(ctx context.Context, note *Note) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notes SET description = $2, hidden = $3 WHERE id = $1`,
		note.ID, note.Description, note.Hidden,
	)
	return err
}

func scanNote(row pgx.Row, n *Note) error {
	return row.Scan(&n.ID, &n.ActionID, &n.AuthorID, &n.AuthorName, &n.Description, &n.Hidden, &n.CreatedAt)
}
