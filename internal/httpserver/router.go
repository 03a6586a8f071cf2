package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jeongwook5013/SecondHand-Shop/internal/middleware"
)

type Deps struct {
	UserHandler    *UserHTTP
	ProductHandler *ProductHTTP
	Auth           *middleware.BearerAuth
	UploadDir      string
}

// Register is the route/auth-policy table: signup, login and catalog reads
// are public, every mutation sits behind the bearer gate.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Static("/uploads", d.UploadDir)

	api := e.Group("/api")

	users := api.Group("/users")
	users.POST("/signup", d.UserHandler.Signup)
	users.POST("/login", d.UserHandler.Login)

	api.GET("/categories", d.ProductHandler.Categories)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.List)
	products.GET("/search", d.ProductHandler.Search)
	products.GET("/:id", d.ProductHandler.Get)

	private := products.Group("", d.Auth.Require)
	private.POST("", d.ProductHandler.Create)
	private.PUT("/:id", d.ProductHandler.Update)
	private.DELETE("/:id", d.ProductHandler.Delete)
	private.POST("/upload-image", d.ProductHandler.UploadImage)
}
