package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindwell/mindwell/internal/platform/db"
	"github.com/mindwell/mindwell/pkg/civil"
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

const bookingCols = `id, provider_id, client_id, booking_date, start_minutes, duration_minutes,
	status, cancellation_reason, cancelled_by, notes, meeting_mode, created_at, updated_at`

func (r *repoPG) scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var date time.Time
	var startMinutes int
	err := row.Scan(&b.ID, &b.ProviderID, &b.ClientID, &date, &startMinutes, &b.Duration,
		&b.Status, &b.Reason, &b.CancelledBy, &b.Notes, &b.MeetingMode, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.Date = civil.DateOf(date)
	b.Start = civil.TimeOfDay(startMinutes)
	return &b, nil
}

// isWindowViolation reports whether err is the active-window exclusion
// constraint rejecting a concurrent insert or reschedule. 23P01 is
// exclusion_violation.
func isWindowViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func (r *repoPG) Create(ctx context.Context, b *Booking) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO booking (id, provider_id, client_id, booking_date, start_minutes,
			duration_minutes, status, notes, meeting_mode)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		b.ID, b.ProviderID, b.ClientID, b.Date.String(), b.Start.Minutes(),
		b.Duration, b.Status, b.Notes, b.MeetingMode)
	if isWindowViolation(err) {
		return ErrSlotConflict
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.scanBooking(r.conn(ctx).QueryRow(ctx,
		`SELECT `+bookingCols+` FROM booking WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, b *Booking) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE booking SET booking_date=$2, start_minutes=$3, duration_minutes=$4,
			status=$5, cancellation_reason=$6, cancelled_by=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.Date.String(), b.Start.Minutes(), b.Duration,
		b.Status, b.Reason, b.CancelledBy, b.Notes)
	if err != nil {
		if isWindowViolation(err) {
			return ErrSlotConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListActiveByProviderDate(ctx context.Context, providerID uuid.UUID, date civil.Date) ([]*Booking, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bookingCols+` FROM booking
		 WHERE provider_id = $1 AND booking_date = $2 AND status = $3
		 ORDER BY start_minutes`,
		providerID, date.String(), StatusScheduled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

// filterClause appends WHERE conditions for f to conds, numbering parameters
// after the ones already in args.
func filterClause(f ListFilter, conds []string, args []interface{}) ([]string, []interface{}) {
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From.String())
		conds = append(conds, fmt.Sprintf("booking_date >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To.String())
		conds = append(conds, fmt.Sprintf("booking_date <= $%d", len(args)))
	}
	return conds, args
}

func (r *repoPG) list(ctx context.Context, conds []string, args []interface{}, limit, offset int) ([]*Booking, int, error) {
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM booking`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bookingCols+` FROM booking`+where+
			fmt.Sprintf(" ORDER BY booking_date DESC, start_minutes DESC LIMIT $%d OFFSET $%d",
				len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) ListByClient(ctx context.Context, clientID string, f ListFilter, limit, offset int) ([]*Booking, int, error) {
	conds, args := filterClause(f, []string{"client_id = $1"}, []interface{}{clientID})
	return r.list(ctx, conds, args, limit, offset)
}

func (r *repoPG) ListByProvider(ctx context.Context, providerID uuid.UUID, f ListFilter, limit, offset int) ([]*Booking, int, error) {
	conds, args := filterClause(f, []string{"provider_id = $1"}, []interface{}{providerID})
	return r.list(ctx, conds, args, limit, offset)
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Booking, int, error) {
	conds, args := filterClause(f, nil, nil)
	return r.list(ctx, conds, args, limit, offset)
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Booking, error) {
	var items []*Booking
	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}
