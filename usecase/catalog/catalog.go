// Package catalog covers the protected resources of the storefront:
// products, orders and courses.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/repository"
	"github.com/skillmart/backend/usecase"
)

type UseCase struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	courses  repository.CourseRepository
	audit    usecase.AuditRecorder
	logger   *zap.Logger
}

func New(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	courses repository.CourseRepository,
	audit usecase.AuditRecorder,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		products: products,
		orders:   orders,
		courses:  courses,
		audit:    audit,
		logger:   logger,
	}
}

func (uc *UseCase) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	return uc.products.List(ctx, filter)
}

func (uc *UseCase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return uc.products.Create(ctx, product)
}

// CreateOrder prices the order against current listings and persists it.
func (uc *UseCase) CreateOrder(ctx context.Context, userID string, items []domain.OrderItem) (*domain.Order, error) {
	var total int64
	for _, item := range items {
		product, err := uc.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		total += product.PriceCents * int64(item.Quantity)
	}

	order := &domain.Order{
		UserID:     userID,
		Items:      items,
		TotalCents: total,
	}
	return uc.orders.Create(ctx, order)
}

func (uc *UseCase) ListOrders(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	return uc.orders.ListByUser(ctx, userID, limit, offset)
}

func (uc *UseCase) ListCourses(ctx context.Context, limit, offset int) ([]domain.Course, error) {
	return uc.courses.List(ctx, limit, offset)
}

// CreateCourse persists a course authored by the given user. Writers may
// draft courses; publishing them is an admin capability.
func (uc *UseCase) CreateCourse(ctx context.Context, author *domain.User, course *domain.Course) (*domain.Course, error) {
	if author == nil {
		return nil, domain.ErrUnauthenticated
	}

	if course.Published && author.Role != domain.RoleAdmin {
		if uc.audit != nil {
			uc.audit.Record(domain.AuditLogEntry{
				UserID: author.ID,
				Role:   author.Role,
				Route:  "/api/v1/courses",
				Action: domain.AuditFeatureDenied,
				Reason: "publishing courses requires ADMIN",
			})
		}
		return nil, domain.ErrForbidden
	}

	course.AuthorID = author.ID
	return uc.courses.Create(ctx, course)
}
