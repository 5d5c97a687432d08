package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/jeetendra29gupta/pizza-order-api/internal/handler"
	"github.com/jeetendra29gupta/pizza-order-api/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	orderHandler *handler.OrderHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Secured routes (require a valid access token)
	secured := api.Group("", authMiddleware.Handler())

	secured.POST("/orders", orderHandler.Place)
	secured.GET("/orders", orderHandler.ListAll)
	secured.GET("/orders/user/orders", orderHandler.ListMine)
	secured.GET("/orders/user/order/:oid", orderHandler.GetMine)
	secured.GET("/orders/:oid", orderHandler.GetByID)
	secured.PUT("/orders/update/:oid", orderHandler.Update)
	secured.PUT("/orders/status/:oid", orderHandler.UpdateStatus)
	secured.DELETE("/orders/delete/:oid", orderHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
