package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sharpshop/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)

const foreignKeyViolation = "23503"

// WishlistRepository defines the interface for saved products
type WishlistRepository interface {
	Add(ctx context.Context, userID uuid.UUID, productID int64) error
	Remove(ctx context.Context, userID uuid.UUID, productID int64) error
	List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error)
}

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new instance of WishlistRepository
func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// Add saves a product for the user. Saving twice is a no-op.
func (r *wishlistRepository) Add(ctx context.Context, userID uuid.UUID, productID int64) error {
	query := `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

// Remove deletes a saved product
func (r *wishlistRepository) Remove(ctx context.Context, userID uuid.UUID, productID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrWishlistItemNotFound
	}

	return nil
}

// List returns the user's saved products, newest first
func (r *wishlistRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	query := `
		SELECT w.user_id, w.created_at,
		       p.id, p.title, p.price, p.images, p.category, COALESCE(p.description, ''), p.created_at, p.updated_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		var item domain.WishlistItem
		product, err := scanProduct(prefixScanner{row: rows, prefix: []any{&item.UserID, &item.CreatedAt}})
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		item.Product = *product
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}

	return items, nil
}

// prefixScanner scans leading columns into prefix before handing the rest to the caller
type prefixScanner struct {
	row    rowScanner
	prefix []any
}

func (s prefixScanner) Scan(dest ...any) error {
	return s.row.Scan(append(append([]any{}, s.prefix...), dest...)...)
}
