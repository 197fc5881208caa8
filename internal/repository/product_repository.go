package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sharpshop/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductFilter narrows a product listing. Zero values mean no restriction.
type ProductFilter struct {
	Category domain.Category
	Query    string
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, title, price, images, category, COALESCE(description, ''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product domain.Product
		images  []byte
	)
	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Price,
		&images,
		&product.Category,
		&product.Description,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &product.Images); err != nil {
			return nil, fmt.Errorf("failed to decode product images: %w", err)
		}
	}
	return &product, nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("failed to encode product images: %w", err)
	}
	return string(data), nil
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a product and fills in its generated ID and timestamps
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	images, err := encodeImages(product.Images)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (title, price, images, category, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		product.Title,
		product.Price,
		images,
		string(product.Category),
		nullableText(product.Description),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites an existing product; updated_at is maintained by a trigger
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	images, err := encodeImages(product.Images)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET title = $2, price = $3, images = $4, category = $5, description = $6
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Price,
		images,
		string(product.Category),
		nullableText(product.Description),
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Delete removes a product; wishlist rows go with it
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByIDs retrieves the products that exist among ids, ordered by ID
func (r *productRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id`
	return r.query(ctx, query, ids)
}

// List retrieves products matching filter in insertion order. The catalog
// applies price windows and sorting on top of this.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY id`

	return r.query(ctx, query, args...)
}

func (r *productRepository) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
