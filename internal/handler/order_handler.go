package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jeetendra29gupta/pizza-order-api/internal/errors"
	"github.com/jeetendra29gupta/pizza-order-api/internal/middleware"
	"github.com/jeetendra29gupta/pizza-order-api/internal/model"
	"github.com/jeetendra29gupta/pizza-order-api/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrderRequest represents an order placement or update request.
type PlaceOrderRequest struct {
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	PizzaSize string `json:"pizza_size" validate:"required,oneof=small medium large extra-large"`
	Flavour   *bool  `json:"flavour" validate:"required"`
}

// UpdateStatusRequest represents an order status change request.
type UpdateStatusRequest struct {
	OrderStatus string `json:"order_status" validate:"required,oneof=pending in-progress completed"`
}

// OrderResponse represents an order in API responses. user_id carries the
// owner's username, matching the token subject.
type OrderResponse struct {
	ID          uint   `json:"id"`
	UserID      string `json:"user_id"`
	Quantity    int    `json:"quantity"`
	PizzaSize   string `json:"pizza_size"`
	Flavour     bool   `json:"flavour"`
	OrderStatus string `json:"order_status"`
}

func toOrderResponse(order *model.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		UserID:      order.OwnerUsername(),
		Quantity:    order.Quantity,
		PizzaSize:   string(order.PizzaSize),
		Flavour:     order.Flavour,
		OrderStatus: string(order.OrderStatus),
	}
}

func toOrderResponses(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

func orderID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("oid"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid order id",
			Code:  "INVALID_ORDER_ID",
		})
	}
	return uint(id), nil
}

// Place godoc
// @Summary Place a new pizza order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaceOrderRequest true "Order details"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.Place(c.Request().Context(), identity, req.Quantity, model.PizzaSize(req.PizzaSize), *req.Flavour)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// ListAll godoc
// @Summary List all orders (staff only)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} OrderResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	orders, err := h.orderService.ListAll(c.Request().Context(), identity)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// GetByID godoc
// @Summary Get any order by id (staff only)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param oid path int true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/{oid} [get]
func (h *OrderHandler) GetByID(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetByID(c.Request().Context(), identity, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListMine godoc
// @Summary List the authenticated user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} OrderResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/user/orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	orders, err := h.orderService.ListOwn(c.Request().Context(), identity)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// GetMine godoc
// @Summary Get one of the authenticated user's orders by id
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param oid path int true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/user/order/{oid} [get]
func (h *OrderHandler) GetMine(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOwn(c.Request().Context(), identity, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Update godoc
// @Summary Update an order's contents (owner only)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param oid path int true "Order ID"
// @Param request body PlaceOrderRequest true "New order details"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/update/{oid} [put]
func (h *OrderHandler) Update(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.Update(c.Request().Context(), identity, id, req.Quantity, model.PizzaSize(req.PizzaSize), *req.Flavour)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateStatus godoc
// @Summary Update an order's status (staff only)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param oid path int true "Order ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/status/{oid} [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), identity, id, model.OrderStatus(req.OrderStatus))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Delete godoc
// @Summary Delete an order (staff only)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param oid path int true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/delete/{oid} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	if err := h.orderService.Delete(c.Request().Context(), identity, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "order deleted successfully",
	})
}
