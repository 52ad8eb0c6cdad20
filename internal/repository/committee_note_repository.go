package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommitteeNote struct {
	ID          int64
	CommitteeID string
	AuthorID    string
	Description string
	Hidden      bool
	CreatedAt   time.Time
}

type CommitteeNoteRepository interface {
	Create(ctx context.Context, note *CommitteeNote) error
	FindByID(ctx context.Context, id int64) (*CommitteeNote, error)
	FindByCommittee(ctx context.Context, committeeID string) ([]*CommitteeNote, error)
}

type pgCommitteeNoteRepository struct {
	pool *pgxpool.Pool
}

func NewCommitteeNoteRepository(pool *pgxpool.Pool) CommitteeNoteRepository {
	return &pgCommitteeNoteRepository{pool: pool}
}

const committeeNoteSelect = `
	SELECT id, committee, COALESCE(author, ''), description, hidden, created_at
	FROM committee_notes
`

func (r *pgCommitteeNoteRepository) Create(ctx context.Context, note *CommitteeNote) error {
	query := `
		INSERT INTO committee_notes (committee, author, description, hidden)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, note.CommitteeID, note.AuthorID, note.Description, note.Hidden).
		Scan(&note.ID, &note.CreatedAt)
}

func (r *pgCommitteeNoteRepository) FindByID(ctx context.Context, id int64) (*CommitteeNote, error) {
	n := &CommitteeNote{}
	err := scanCommitteeNote(r.pool.QueryRow(ctx, committeeNoteSelect+` WHERE id = $1`, id), n)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *pgCommitteeNoteRepository) FindByCommittee(ctx context.Context, committeeID string) ([]*CommitteeNote, error) {
	rows, err := r.pool.Query(ctx, committeeNoteSelect+` WHERE committee = $1 ORDER BY created_at DESC, id DESC`, committeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*CommitteeNote
	for rows.Next() {
		n := &CommitteeNote{}
		if err := scanCommitteeNote(rows, n); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func scanCommitteeNote(row pgx.Row, n *CommitteeNote) error {
	return row.Scan(&n.ID, &n.CommitteeID, &n.AuthorID, &n.Description, &n.Hidden, &n.CreatedAt)
}
