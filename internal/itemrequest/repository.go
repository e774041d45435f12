package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *ItemRequest) error
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter Filter) ([]*ItemRequest, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var requestColumns = []string{"id", "description", "requestor_id", "created_at"}

func (r *pgxRepository) Create(ctx context.Context, req *ItemRequest) error {
	const query = `
		INSERT INTO public.item_requests (description, requestor_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query, req.Description, req.RequestorID).Scan(&req.ID, &req.Created); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrUserNotFound
		}
		return fmt.Errorf("create item request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(requestColumns...).
		From("public.item_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item request query failed: %w", err)
	}

	var req ItemRequest
	err = r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) Exists(ctx context.Context, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}
	const query = `SELECT EXISTS (SELECT 1 FROM public.item_requests WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check item request exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*ItemRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(requestColumns...).From("public.item_requests")

	if filter.RequestorID != "" {
		query = query.Where(squirrel.Eq{"requestor_id": filter.RequestorID})
	}
	if filter.ExcludeRequestorID != "" {
		query = query.Where(squirrel.NotEq{"requestor_id": filter.ExcludeRequestorID})
	}

	query = query.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list item requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list item requests failed: %w", err)
	}
	defer rows.Close()

	var out []*ItemRequest
	for rows.Next() {
		var req ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created); err != nil {
			return nil, fmt.Errorf("scan item request failed: %w", err)
		}
		out = append(out, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item requests failed: %w", err)
	}
	return out, nil
}
