package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindwell/mindwell/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const providerCols = `id, user_id, name, specialty, bio, approved, schedule, created_at, updated_at`

func (r *repoPG) scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	var scheduleJSON []byte
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Specialty, &p.Bio, &p.Approved,
		&scheduleJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(scheduleJSON) > 0 {
		if err := json.Unmarshal(scheduleJSON, &p.Schedule); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
	}
	return &p, nil
}

func marshalSchedule(ws WeeklySchedule) ([]byte, error) {
	if ws == nil {
		return nil, nil
	}
	return json.Marshal(ws)
}

func (r *repoPG) Create(ctx context.Context, p *Provider) error {
	p.ID = uuid.New()
	scheduleJSON, err := marshalSchedule(p.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO provider (id, user_id, name, specialty, bio, approved, schedule)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.UserID, p.Name, p.Specialty, p.Bio, p.Approved, scheduleJSON)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return r.scanProvider(r.conn(ctx).QueryRow(ctx,
		`SELECT `+providerCols+` FROM provider WHERE id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID string) (*Provider, error) {
	return r.scanProvider(r.conn(ctx).QueryRow(ctx,
		`SELECT `+providerCols+` FROM provider WHERE user_id = $1`, userID))
}

func (r *repoPG) Update(ctx context.Context, p *Provider) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE provider SET name=$2, specialty=$3, bio=$4, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Specialty, p.Bio)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateSchedule(ctx context.Context, id uuid.UUID, schedule WeeklySchedule) error {
	scheduleJSON, err := marshalSchedule(schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE provider SET schedule=$2, updated_at=NOW()
		WHERE id = $1`, id, scheduleJSON)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE provider SET approved=$2, updated_at=NOW()
		WHERE id = $1`, id, approved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, approvedOnly bool, limit, offset int) ([]*Provider, int, error) {
	where := ``
	if approvedOnly {
		where = ` WHERE approved`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM provider`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+providerCols+` FROM provider`+where+` ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Provider
	for rows.Next() {
		p, err := r.scanProvider(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
