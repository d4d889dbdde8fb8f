package transport

// Request schemas. Constraints are declared per field and checked wholesale
// through internal/validation before any handler touches storage.

type ProfileUpdateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
}

type ProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	PriceCents  int64  `json:"price_cents" validate:"min=0"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type OrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"min=1,dive"`
}

type CourseRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
	PriceCents  int64  `json:"price_cents" validate:"min=0"`
	Published   bool   `json:"published"`
}

type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=CUSTOMER LEARNER WRITER SELLER ADMIN"`
}
