package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	ListByItem(ctx context.Context, itemID string) ([]*Comment, error)
}

type pgxCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPgxCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &pgxCommentRepository{pool: pool}
}

func (r *pgxCommentRepository) Create(ctx context.Context, c *Comment) error {
	const query = `
		WITH inserted AS (
			INSERT INTO public.comments (text, item_id, author_id)
			VALUES ($1, $2, $3)
			RETURNING id, author_id, created_at
		)
		SELECT inserted.id, u.name, inserted.created_at
		FROM inserted
		JOIN public.users u ON u.id = inserted.author_id
	`
	err := r.pool.QueryRow(ctx, query, c.Text, c.ItemID, c.AuthorID).
		Scan(&c.ID, &c.AuthorName, &c.Created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrNotFound
		}
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxCommentRepository) ListByItem(ctx context.Context, itemID string) ([]*Comment, error) {
	const query = `
		SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created_at
		FROM public.comments c
		JOIN public.users u ON u.id = c.author_id
		WHERE c.item_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Created); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments failed: %w", err)
	}
	return comments, nil
}
