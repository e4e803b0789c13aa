// Package server assembles the HTTP transport for the sales administration
// API: gin routes, request/response DTOs, problem responses, and the auth
// middleware.
package server

import (
	"github.com/gin-gonic/gin"

	usersdomain "github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
	usersports "github.com/orderdesk/sales-admin-api/internal/domains/users/ports"
)

// ApiHandleFunctions bundles every resource's handlers for the router.
type ApiHandleFunctions struct {
	ProductAPI  ProductAPI
	CategoryAPI CategoryAPI
	ClientAPI   ClientAPI
	OrderAPI    OrderAPI
	DeliveryAPI DeliveryAPI
	MetricsAPI  MetricsAPI
	AuthAPI     AuthAPI
	UserAPI     UserAPI
}

// NewRouter returns a gin engine with all routes registered.
func NewRouter(handlers ApiHandleFunctions, auth usersports.Service) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handlers, auth)
}

// NewRouterWithGinEngine registers all routes on a caller-provided engine.
// Everything under /api/v1 except the auth endpoints requires a valid
// access token; user administration additionally requires the ADMIN role.
func NewRouterWithGinEngine(router *gin.Engine, handlers ApiHandleFunctions, auth usersports.Service) *gin.Engine {
	v1 := router.Group("/api/v1")

	public := v1.Group("/auth")
	{
		public.POST("/register", handlers.AuthAPI.Register)
		public.POST("/login", handlers.AuthAPI.Login)
		public.POST("/refresh", handlers.AuthAPI.Refresh)
	}

	private := v1.Group("")
	private.Use(AuthRequired(auth))
	{
		private.POST("/auth/logout", handlers.AuthAPI.Logout)
		private.GET("/auth/me", handlers.AuthAPI.Me)

		private.GET("/products", handlers.ProductAPI.List)
		private.POST("/products", handlers.ProductAPI.Create)
		private.GET("/products/:id", handlers.ProductAPI.Get)
		private.PUT("/products/:id", handlers.ProductAPI.Update)
		private.DELETE("/products/:id", handlers.ProductAPI.Delete)

		private.GET("/categories", handlers.CategoryAPI.List)
		private.POST("/categories", handlers.CategoryAPI.Create)
		private.GET("/categories/:id", handlers.CategoryAPI.Get)
		private.PUT("/categories/:id", handlers.CategoryAPI.Update)
		private.DELETE("/categories/:id", handlers.CategoryAPI.Delete)

		private.GET("/clients", handlers.ClientAPI.List)
		private.GET("/clients/export", handlers.ClientAPI.Export)
		private.POST("/clients", handlers.ClientAPI.Create)
		private.POST("/clients/bulk-delete", handlers.ClientAPI.BulkDelete)
		private.GET("/clients/:id", handlers.ClientAPI.Get)
		private.PUT("/clients/:id", handlers.ClientAPI.Update)
		private.DELETE("/clients/:id", handlers.ClientAPI.Delete)

		private.GET("/orders", handlers.OrderAPI.List)
		private.GET("/orders/export", handlers.OrderAPI.Export)
		private.POST("/orders", handlers.OrderAPI.Create)
		private.GET("/orders/:id", handlers.OrderAPI.Get)
		private.PATCH("/orders/:id/status", handlers.OrderAPI.UpdateStatus)
		private.DELETE("/orders/:id", handlers.OrderAPI.Delete)
		private.POST("/orders/:id/items", handlers.OrderAPI.AddItem)
		private.PATCH("/order-items/:id", handlers.OrderAPI.UpdateItem)
		private.DELETE("/order-items/:id", handlers.OrderAPI.RemoveItem)

		private.GET("/deliveries", handlers.DeliveryAPI.List)
		private.POST("/deliveries", handlers.DeliveryAPI.Create)
		private.GET("/deliveries/:id", handlers.DeliveryAPI.Get)
		private.PATCH("/deliveries/:id", handlers.DeliveryAPI.Update)
		private.DELETE("/deliveries/:id", handlers.DeliveryAPI.Delete)

		private.GET("/metrics/dashboard", handlers.MetricsAPI.Dashboard)

		admin := private.Group("/users")
		admin.Use(RequireRole(usersdomain.RoleAdmin))
		{
			admin.POST("", handlers.UserAPI.Create)
			admin.GET("", handlers.UserAPI.List)
			admin.GET("/:id", handlers.UserAPI.Get)
			admin.DELETE("/:id", handlers.UserAPI.Delete)
		}
	}

	return router
}
