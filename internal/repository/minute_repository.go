package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MinuteCharge struct {
	ID    int64
	Title string
}

type Minute struct {
	ID          int64
	Title       string
	Body        string
	Date        int64 // epoch seconds
	Private     bool
	CommitteeID string
	Charges     []MinuteCharge
	CreatedAt   time.Time
}

type MinuteRepository interface {
	// Create inserts the minute together with its charge links.
	Create(ctx context.Context, minute *Minute, chargeIDs []int64) error
	FindByID(ctx context.Context, id int64) (*Minute, error)
	FindByCommittee(ctx context.Context, committeeID string, includePrivate bool) ([]*Minute, error)
	// Update persists title, body and privacy. A nil chargeIDs leaves links untouched;
	// a non-nil slice replaces them.
	Update(ctx context.Context, minute *Minute, chargeIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

type pgMinuteRepository struct {
	pool *pgxpool.Pool
}

func NewMinuteRepository(pool *pgxpool.Pool) MinuteRepository {
	return &pgMinuteRepository{pool: pool}
}

const minuteSelect = `
	SELECT m.id, m.title, m.body, m.date, m.private, m.committee_id, m.created_at,
		COALESCE(
			(SELECT json_agg(json_build_object('id', c.id, 'title', c.title) ORDER BY c.id)
			 FROM minute_charges mc JOIN charges c ON c.id = mc.charge_id
			 WHERE mc.minute_id = m.id),
			'[]'::json)
	FROM minutes m
`

func (r *pgMinuteRepository) Create(ctx context.Context, minute *Minute, chargeIDs []int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO minutes (title, body, date, private, committee_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`
		if err := tx.QueryRow(ctx, query,
			minute.Title, minute.Body, minute.Date, minute.Private, minute.CommitteeID,
		).Scan(&minute.ID, &minute.CreatedAt); err != nil {
			return err
		}
		return linkMinuteCharges(ctx, tx, minute.ID, chargeIDs)
	})
}

func (r *pgMinuteRepository) FindByID(ctx context.Context, id int64) (*Minute, error) {
	m := &Minute{}
	err := scanMinute(r.pool.QueryRow(ctx, minuteSelect+` WHERE m.id = $1`, id), m)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMinuteRepository) FindByCommittee(ctx context.Context, committeeID string, includePrivate bool) ([]*Minute, error) {
	query := minuteSelect + ` WHERE m.committee_id = $1`
	if !includePrivate {
		query += ` AND m.private = FALSE`
	}
	query += ` ORDER BY m.date DESC, m.id DESC`

	rows, err := r.pool.Query(ctx, query, committeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var minutes []*Minute
	for rows.Next() {
		m := &Minute{}
		if err := scanMinute(rows, m); err != nil {
			return nil, err
		}
		minutes = append(minutes, m)
	}
	return minutes, rows.Err()
}

func (r *pgMinuteRepository) Update(ctx context.Context, minute *Minute, chargeIDs []int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE minutes SET title = $2, body = $3, private = $4 WHERE id = $1`,
			minute.ID, minute.Title, minute.Body, minute.Private,
		); err != nil {
			return err
		}
		if chargeIDs == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM minute_charges WHERE minute_id = $1`, minute.ID); err != nil {
			return err
		}
		return linkMinuteCharges(ctx, tx, minute.ID, chargeIDs)
	})
}

func (r *pgMinuteRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM minutes WHERE id = $1`, id)
	return err
}

func linkMinuteCharges(ctx context.Context, tx pgx.Tx, minuteID int64, chargeIDs []int64) error {
	if len(chargeIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO minute_charges (minute_id, charge_id)
		SELECT $1, id FROM charges WHERE id = ANY($2)
		ON CONFLICT DO NOTHING
	`, minuteID, chargeIDs)
	return err
}

func scanMinute(row pgx.Row, m *Minute) error {
	return row.Scan(&m.ID, &m.Title, &m.Body, &m.Date, &m.Private, &m.CommitteeID, &m.CreatedAt, &m.Charges)
}
