package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/repository"
)

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation of ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
	SELECT id, seller_id, name, description, price_cents, created_at, updated_at
	FROM products
	WHERE id = $1
	`
	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Description, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	const query = `
	SELECT id, seller_id, name, description, price_cents, created_at, updated_at
	FROM products
	WHERE ($1 = '' OR seller_id::text = $1)
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.SellerID, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, domain.ErrInvalidPayload
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO products (id, seller_id, name, description, price_cents)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		product.ID, product.SellerID, product.Name, product.Description, product.PriceCents,
	).Scan(&product.CreatedAt, &product.UpdatedAt); err != nil {
		return nil, err
	}
	return product, nil
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation of OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) repository.OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
	SELECT id, user_id, items, total_cents, status, created_at
	FROM orders
	WHERE id = $1
	`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	const query = `
	SELECT id, user_id, items, total_cents, status, created_at
	FROM orders
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, domain.ErrInvalidPayload
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = "pending"
	}

	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}

	const query = `
	INSERT INTO orders (id, user_id, items, total_cents, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		order.ID, order.UserID, items, order.TotalCents, order.Status,
	).Scan(&order.CreatedAt); err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var items []byte

	if err := row.Scan(&order.ID, &order.UserID, &items, &order.TotalCents, &order.Status, &order.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.ErrCodeNotFound, "order not found")
		}
		return nil, err
	}
	if len(items) > 0 {
		_ = json.Unmarshal(items, &order.Items)
	}
	return &order, nil
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository returns a Postgres-backed implementation of CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) repository.CourseRepository {
	return &courseRepository{pool: pool}
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	const query = `
	SELECT id, author_id, title, description, price_cents, published, created_at, updated_at
	FROM courses
	WHERE id = $1
	`
	var c domain.Course
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.AuthorID, &c.Title, &c.Description, &c.PriceCents, &c.Published, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.ErrCodeNotFound, "course not found")
		}
		return nil, err
	}
	return &c, nil
}

func (r *courseRepository) List(ctx context.Context, limit, offset int) ([]domain.Course, error) {
	const query = `
	SELECT id, author_id, title, description, price_cents, published, created_at, updated_at
	FROM courses
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Title, &c.Description, &c.PriceCents, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	if course == nil {
		return nil, domain.ErrInvalidPayload
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO courses (id, author_id, title, description, price_cents, published)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		course.ID, course.AuthorID, course.Title, course.Description, course.PriceCents, course.Published,
	).Scan(&course.CreatedAt, &course.UpdatedAt); err != nil {
		return nil, err
	}
	return course, nil
}
