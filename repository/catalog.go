package repository

import (
	"context"

	"github.com/skillmart/backend/domain"
)

type ProductFilter struct {
	SellerID string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
}

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, limit, offset int) ([]domain.Course, error)
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
}
