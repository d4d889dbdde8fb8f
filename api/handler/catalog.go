package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/skillmart/backend/api/transport"
	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/pkg/httpcontext"
	"github.com/skillmart/backend/repository"
	catalogUC "github.com/skillmart/backend/usecase/catalog"
	"github.com/skillmart/backend/usecase/guard"
)

type CatalogHandler struct {
	baseHandler
	uc    *catalogUC.UseCase
	guard *guard.Guard
}

func NewCatalogHandler(uc *catalogUC.UseCase, g *guard.Guard, adapter *httpcontext.Adapter, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		guard:       g,
	}
}

// @Summary List products
// @Tags catalog
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	products, err := h.uc.ListProducts(stdCtx, repository.ProductFilter{
		SellerID: string(ctx.QueryArgs().Peek("seller_id")),
		Limit:    ctx.QueryArgs().GetUintOrZero("limit"),
		Offset:   ctx.QueryArgs().GetUintOrZero("offset"),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, products)
}

// @Summary Create a product listing
// @Tags catalog
// @Router /api/v1/products [post]
func (h *CatalogHandler) CreateProduct(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	seller, err := h.guard.Authorize(stdCtx, h.rawSubject(ctx),
		domain.NewRoleSet(domain.RoleSeller, domain.RoleAdmin),
		guard.Options{Route: "/api/v1/products", LogOnSuccess: true})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var req transport.ProductRequest
	if !h.decode(ctx, &req) {
		return
	}

	product, err := h.uc.CreateProduct(stdCtx, &domain.Product{
		SellerID:    seller.ID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, product)
}

// @Summary List the authenticated user's orders
// @Tags catalog
// @Router /api/v1/orders [get]
func (h *CatalogHandler) ListOrders(ctx *fasthttp.RequestCtx) {
	userID := h.subject(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	orders, err := h.uc.ListOrders(stdCtx, userID,
		ctx.QueryArgs().GetUintOrZero("limit"),
		ctx.QueryArgs().GetUintOrZero("offset"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, orders)
}

// @Summary Place an order
// @Tags catalog
// @Router /api/v1/orders [post]
func (h *CatalogHandler) CreateOrder(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	buyer, err := h.guard.Authorize(stdCtx, h.rawSubject(ctx),
		domain.NewRoleSet(domain.RoleCustomer, domain.RoleLearner, domain.RoleAdmin),
		guard.Options{Route: "/api/v1/orders", LogOnSuccess: true})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var req transport.OrderRequest
	if !h.decode(ctx, &req) {
		return
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := h.uc.CreateOrder(stdCtx, buyer.ID, items)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, order)
}

// @Summary List courses
// @Tags catalog
// @Router /api/v1/courses [get]
func (h *CatalogHandler) ListCourses(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	courses, err := h.uc.ListCourses(stdCtx,
		ctx.QueryArgs().GetUintOrZero("limit"),
		ctx.QueryArgs().GetUintOrZero("offset"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, courses)
}

// @Summary Create a course
// @Tags catalog
// @Router /api/v1/courses [post]
func (h *CatalogHandler) CreateCourse(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	author, err := h.guard.Authorize(stdCtx, h.rawSubject(ctx),
		domain.NewRoleSet(domain.RoleAdmin, domain.RoleWriter),
		guard.Options{Route: "/api/v1/courses", LogOnSuccess: true})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var req transport.CourseRequest
	if !h.decode(ctx, &req) {
		return
	}

	course, err := h.uc.CreateCourse(stdCtx, author, &domain.Course{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Published:   req.Published,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, course)
}
