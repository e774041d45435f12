package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)

	// UpdateStatus moves a booking from one status to another atomically.
	// It returns ErrAlreadyProcessed if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	// LastApproved returns the approved booking of the item with the latest start <= now, or nil.
	LastApproved(ctx context.Context, itemID string, now time.Time) (*Booking, error)
	// NextApproved returns the approved booking of the item with the earliest start > now, or nil.
	NextApproved(ctx context.Context, itemID string, now time.Time) (*Booking, error)
	// HasFinished reports whether the booker has an approved booking of the item that ended before now.
	HasFinished(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
	"b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
}

func selectBookings() squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(bookingColumns...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Start = b.Start.UTC()
	b.End = b.End.UTC()
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, string(b.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ForeignKeyViolation:
				if pgErr.ConstraintName == "bookings_item_id_fkey" {
					return ErrItemNotFound
				}
				return ErrUserNotFound
			case pgerrcode.CheckViolation:
				return ErrInvalidTimeRange
			}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

// statePredicate translates a State into a WHERE clause evaluated at now.
func statePredicate(st State, now time.Time) (squirrel.Sqlizer, error) {
	switch st {
	case StateAll, "":
		return nil, nil
	case StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.GtOrEq{"b.end_time": now},
		}, nil
	case StatePast:
		return squirrel.Lt{"b.end_time": now}, nil
	case StateFuture:
		return squirrel.Gt{"b.start_time": now}, nil
	case StateWaiting:
		return squirrel.Eq{"b.status": string(StatusWaiting)}, nil
	case StateRejected:
		return squirrel.Eq{"b.status": string(StatusRejected)}, nil
	}
	return nil, ErrUnknownState
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	query := selectBookings()

	if filter.BookerID != "" {
		query = query.Where(squirrel.Eq{"b.booker_id": filter.BookerID})
	}
	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"i.owner_id": filter.OwnerID})
	}

	pred, err := statePredicate(filter.State, filter.Now)
	if err != nil {
		return nil, err
	}
	if pred != nil {
		query = query.Where(pred)
	}

	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	sql, args, err := query.OrderBy("b.start_time DESC", "b.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either the booking vanished or another writer decided it first.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyProcessed
	}
	return nil
}

func (r *pgxRepository) adjacent(ctx context.Context, itemID string, where squirrel.Sqlizer, order string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": string(StatusApproved)}).
		Where(where).
		OrderBy(order).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build adjacent booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjacent booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) LastApproved(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	return r.adjacent(ctx, itemID, squirrel.LtOrEq{"b.start_time": now}, "b.start_time DESC")
}

func (r *pgxRepository) NextApproved(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	return r.adjacent(ctx, itemID, squirrel.Gt{"b.start_time": now}, "b.start_time ASC")
}

func (r *pgxRepository) HasFinished(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.bookings
			WHERE booker_id = $1 AND item_id = $2 AND status = $3 AND end_time < $4
		)
	`
	var ok bool
	if err := r.pool.QueryRow(ctx, query, bookerID, itemID, string(StatusApproved), now).Scan(&ok); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return ok, nil
}
