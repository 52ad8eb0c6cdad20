package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

type Action struct {
	ID          int64
	Title       string
	Description string
	ChargeID    int64
	AuthorID    *string
	AssignedTo  *string
	Status      types.ActionStatus
	CreatedAt   time.Time
}

type ActionRepository interface {
	Create(ctx context.Context, action *Action) error
	FindByID(ctx context.Context, id int64) (*Action, error)
	FindByCharge(ctx context.Context, chargeID int64) ([]*Action, error)
	Update(ctx context.Context, action *Action) error
}

type pgActionRepository struct {
	pool *pgxpool.Pool
}

func NewActionRepository(pool *pgxpool.Pool) ActionRepository {
	return &pgActionRepository{pool: pool}
}

const actionSelect = `
	SELECT id, title, description, charge, author, assigned_to, status, created_at
	FROM actions
`

func (r *pgActionRepository) Create(ctx context.Context, action *Action) error {
	query := `
		INSERT INTO actions (title, description, charge, author, assigned_to, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		action.Title, action.Description, action.ChargeID, action.AuthorID, action.AssignedTo, action.Status,
	).Scan(&action.ID, &action.CreatedAt)
}

func (r *pgActionRepository) FindByID(ctx context.Context, id int64) (*Action, error) {
	a := &Action{}
	err := scanAction(r.pool.QueryRow(ctx, actionSelect+` WHERE id = $1`, id), a)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *pgActionRepository) FindByCharge(ctx context.Context, chargeID int64) ([]*Action, error) {
	rows, err := r.pool.Query(ctx, actionSelect+` WHERE charge = $1 ORDER BY created_at, id`, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a := &Action{}
		if err := scanAction(rows, a); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (r *pgActionRepository) Update(ctx context.Context, action *Action) error {
	query := `
		UPDATE actions SET title = $2, description = $3, assigned_to = $4, status = $5
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		action.ID, action.Title, action.Description, action.AssignedTo, action.Status,
	)
	return err
}

func scanAction(row pgx.Row, a *Action) error {
	return row.Scan(
		&a.ID, &a.Title, &a.Description, &a.ChargeID, &a.AuthorID, &a.AssignedTo, &a.Status, &a.CreatedAt,
	)
}
