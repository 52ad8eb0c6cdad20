package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

type Charge struct {
	ID           int64
	Title        string
	Description  string
	CommitteeID  string
	AuthorID     *string
	Priority     types.Priority
	Status       types.ChargeStatus
	Private      bool
	PawLinks     string
	Objectives   []string
	Schedule     []string
	Resources    []string
	Stakeholders []string
	CreatedAt    time.Time
}

// ProgressNote is an append-only status update on a charge.
type ProgressNote struct {
	ID        int64
	ChargeID  int64
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

type ChargeRepository interface {
	Create(ctx context.Context, charge *Charge) error
	FindByID(ctx context.Context, id int64) (*Charge, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*Charge, error)
	FindByCommittee(ctx context.Context, committeeID string, includePrivate bool) ([]*Charge, error)
	FindPublic(ctx context.Context) ([]*Charge, error)
	Update(ctx context.Context, charge *Charge) error
	AddProgressNote(ctx context.Context, note *ProgressNote) error
	FindProgressNotes(ctx context.Context, chargeID int64) ([]*ProgressNote, error)
}

type pgChargeRepository struct {
	pool *pgxpool.Pool
}

func NewChargeRepository(pool *pgxpool.Pool) ChargeRepository {
	return &pgChargeRepository{pool: pool}
}

const chargeSelect = `
	SELECT id, title, description, committee, author, priority, status, private, paw_links,
		objectives, schedule, resources, stakeholders, created_at
	FROM charges
`

func (r *pgChargeRepository) Create(ctx context.Context, charge *Charge) error {
	query := `
		INSERT INTO charges (title, description, committee, author, priority, status, private,
			paw_links, objectives, schedule, resources, stakeholders)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		charge.Title, charge.Description, charge.CommitteeID, charge.AuthorID,
		charge.Priority, charge.Status, charge.Private, charge.PawLinks,
		nonNil(charge.Objectives), nonNil(charge.Schedule), nonNil(charge.Resources), nonNil(charge.Stakeholders),
	).Scan(&charge.ID, &charge.CreatedAt)
}

func (r *pgChargeRepository) FindByID(ctx context.Context, id int64) (*Charge, error) {
	c := &Charge{}
	err := scanCharge(r.pool.QueryRow(ctx, chargeSelect+` WHERE id = $1`, id), c)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgChargeRepository) FindByIDs(ctx context.Context, ids []int64) ([]*Charge, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, chargeSelect+` WHERE id = ANY($1) ORDER BY id`, ids)
}

func (r *pgChargeRepository) FindByCommittee(ctx context.Context, committeeID string, includePrivate bool) ([]*Charge, error) {
	query := chargeSelect + ` WHERE committee = $1`
	if !includePrivate {
		query += ` AND private = FALSE`
	}
	query += ` ORDER BY created_at DESC`
	return r.list(ctx, query, committeeID)
}

func (r *pgChargeRepository) FindPublic(ctx context.Context) ([]*Charge, error) {
	return r.list(ctx, chargeSelect+` WHERE private = FALSE ORDER BY created_at DESC`)
}

func (r *pgChargeRepository) Update(ctx context.Context, charge *Charge) error {
	query := `
		UPDATE charges
		SET title = $2, description = $3, committee = $4, priority = $5, status = $6,
			private = $7, paw_links = $8, objectives = $9, schedule = $10,
			resources = $11, stakeholders = $12
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		charge.ID, charge.Title, charge.Description, charge.CommitteeID, charge.Priority,
		charge.Status, charge.Private, charge.PawLinks,
		nonNil(charge.Objectives), nonNil(charge.Schedule), nonNil(charge.Resources), nonNil(charge.Stakeholders),
	)
	return err
}

func (r *pgChargeRepository) AddProgressNote(ctx context.Context, note *ProgressNote) error {
	query := `
		INSERT INTO charge_progress_notes (charge, author, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, note.ChargeID, note.AuthorID, note.Body).
		Scan(&note.ID, &note.CreatedAt)
}

func (r *pgChargeRepository) FindProgressNotes(ctx context.Context, chargeID int64) ([]*ProgressNote, error) {
	query := `
		SELECT id, charge, COALESCE(author, ''), body, created_at
		FROM charge_progress_notes WHERE charge = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*ProgressNote
	for rows.Next() {
		n := &ProgressNote{}
		if err := rows.Scan(&n.ID, &n.ChargeID, &n.AuthorID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *pgChargeRepository) list(ctx context.Context, query string, args ...interface{}) ([]*Charge, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*Charge
	for rows.Next() {
		c := &Charge{}
		if err := scanCharge(rows, c); err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}
	return charges, rows.Err()
}

func scanCharge(row pgx.Row, c *Charge) error {
	return row.Scan(
		&c.ID, &c.Title, &c.Description, &c.CommitteeID, &c.AuthorID, &c.Priority, &c.Status,
		&c.Private, &c.PawLinks, &c.Objectives, &c.Schedule, &c.Resources, &c.Stakeholders, &c.CreatedAt,
	)
}
