package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avorobev/storefront/internal/handlers"
	authmw "github.com/avorobev/storefront/internal/middleware/auth"
	"github.com/avorobev/storefront/internal/role"
)

type Deps struct {
	DB             *gorm.DB
	JWTSecret      []byte
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)

	requireToken := authmw.RequireToken(d.JWTSecret)
	requireAdmin := authmw.RequireRole(role.Admin)

	prod := e.Group("/prod", requireToken)
	prod.GET("", d.ProductHandler.GetProducts)
	if d.SearchHandler != nil {
		prod.GET("/search", d.SearchHandler.Search)
	}
	prod.GET("/:id", d.ProductHandler.GetProduct)
	prod.POST("", d.ProductHandler.CreateProduct, requireAdmin)

	order := e.Group("/order", requireToken)
	order.POST("", d.OrderHandler.PlaceOrder)
	order.GET("", d.OrderHandler.GetAllOrders, requireAdmin)
}
