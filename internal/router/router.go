package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/skillmart/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Catalog *apiHandler.CatalogHandler
	Admin   *apiHandler.AdminHandler
	Health  *apiHandler.HealthHandler
}

// New wires the route table. Authentication is enforced upstream by the
// edge gate; role checks happen inside the handlers through the guard, so
// no per-route middleware appears here.
func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	r.GET("/api/v1/profile", handlers.Profile.Get)
	r.PUT("/api/v1/profile", handlers.Profile.Update)

	r.GET("/api/v1/products", handlers.Catalog.ListProducts)
	r.POST("/api/v1/products", handlers.Catalog.CreateProduct)
	r.GET("/api/v1/orders", handlers.Catalog.ListOrders)
	r.POST("/api/v1/orders", handlers.Catalog.CreateOrder)
	r.GET("/api/v1/courses", handlers.Catalog.ListCourses)
	r.POST("/api/v1/courses", handlers.Catalog.CreateCourse)

	r.PUT("/api/v1/admin/users/{id}/role", handlers.Admin.UpdateUserRole)
	r.GET("/api/v1/admin/audit", handlers.Admin.ListAudit)
	r.GET("/api/v1/admin/audit/summary", handlers.Admin.AuditSummary)

	return r
}
