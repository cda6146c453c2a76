package http

import (
	"net/http"
	"strconv"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/infra"
	"cake-order-service/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	orders   *services.OrderService
	carts    *services.CartService
	products infra.ProductCatalog
}

// NewHandler wires the services. products serves storefront reads only and
// may be cached; the services validate against their own catalog.
func NewHandler(orders *services.OrderService, carts *services.CartService, products infra.ProductCatalog) *Handler {
	return &Handler{orders: orders, carts: carts, products: products}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	users := r.Group("/users/:userId")
	users.GET("/cart", h.ListCart)
	users.POST("/cart", h.AddToCart)
	users.PATCH("/cart/:itemId", h.UpdateCartItem)
	users.DELETE("/cart/:itemId", h.DeleteCartItem)
	users.POST("/orders", h.CreateOrder)

	r.GET("/orders/:id", h.GetOrder)
	r.PATCH("/orders/:id/status", h.ChangeOrderStatus)
	r.GET("/orders/product/:productId", h.GetOrderByProduct)

	r.GET("/products/:id", h.GetProduct)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.products.GetProductById(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		writeError(c, domain.ErrProductNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.orders.CreateOrder(c.Request.Context(), req.toService(userID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateOrderResponse{ID: res.OrderID})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrderById(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetOrderByProduct(c *gin.Context) {
	productId, ok := pathID(c, "productId")
	if !ok {
		return
	}
	orders, err := h.orders.GetOrderByProductId(c.Request.Context(), productId)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) ChangeOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	order, err := h.orders.ChangeOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListCart(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	lines, err := h.carts.ListValidCartItems(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *Handler) AddToCart(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item, err := h.carts.AddToCart(c.Request.Context(), userID, req.ProductID, req.Quantity, req.OrderFormData)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item, err := h.carts.UpdateCartItem(c.Request.Context(), userID, itemID, req.Quantity, req.OrderFormData)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteCartItem(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	if err := h.carts.DeleteCartItem(c.Request.Context(), userID, itemID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
