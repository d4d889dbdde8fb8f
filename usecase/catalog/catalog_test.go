package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/repository"
)

type stubProductRepo struct {
	products map[string]*domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *stubProductRepo) List(context.Context, repository.ProductFilter) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	return product, nil
}

type stubOrderRepo struct {
	created *domain.Order
}

func (s *stubOrderRepo) GetByID(context.Context, string) (*domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) ListByUser(context.Context, string, int, int) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	s.created = order
	return order, nil
}

type stubCourseRepo struct{}

func (stubCourseRepo) GetByID(context.Context, string) (*domain.Course, error) { return nil, nil }
func (stubCourseRepo) List(context.Context, int, int) ([]domain.Course, error) { return nil, nil }
func (stubCourseRepo) Create(_ context.Context, course *domain.Course) (*domain.Course, error) {
	return course, nil
}

func TestCreateOrderPricesAgainstListings(t *testing.T) {
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", PriceCents: 2999},
		"p2": {ID: "p2", PriceCents: 500},
	}}
	orders := &stubOrderRepo{}
	uc := New(products, orders, stubCourseRepo{}, nil, nil)

	order, err := uc.CreateOrder(context.Background(), "u1", []domain.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.TotalCents != 2*2999+3*500 {
		t.Fatalf("total %d", order.TotalCents)
	}
	if orders.created == nil || orders.created.UserID != "u1" {
		t.Fatalf("order not persisted for buyer: %+v", orders.created)
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	uc := New(&stubProductRepo{}, &stubOrderRepo{}, stubCourseRepo{}, nil, nil)

	_, err := uc.CreateOrder(context.Background(), "u1", []domain.OrderItem{
		{ProductID: "ghost", Quantity: 1},
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

type captureRecorder struct {
	entries []domain.AuditLogEntry
}

func (c *captureRecorder) Record(entry domain.AuditLogEntry) {
	c.entries = append(c.entries, entry)
}

func TestCreateCoursePublishRequiresAdmin(t *testing.T) {
	rec := &captureRecorder{}
	uc := New(&stubProductRepo{}, &stubOrderRepo{}, stubCourseRepo{}, rec, nil)
	writer := &domain.User{ID: "w1", Role: domain.RoleWriter}

	_, err := uc.CreateCourse(context.Background(), writer, &domain.Course{Title: "Go 101", Published: true})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != domain.AuditFeatureDenied {
		t.Fatalf("expected FEATURE_DENIED entry, got %+v", rec.entries)
	}

	// A draft from the same writer is fine.
	course, err := uc.CreateCourse(context.Background(), writer, &domain.Course{Title: "Go 101"})
	if err != nil {
		t.Fatalf("draft create: %v", err)
	}
	if course.AuthorID != "w1" {
		t.Fatalf("author not stamped: %+v", course)
	}

	// Admins publish directly.
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	if _, err := uc.CreateCourse(context.Background(), admin, &domain.Course{Title: "Go 201", Published: true}); err != nil {
		t.Fatalf("admin publish: %v", err)
	}
}
