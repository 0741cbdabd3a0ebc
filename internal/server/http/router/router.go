package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tableside/internal/config"
	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/server/http/handlers"
	"github.com/polkiloo/tableside/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.RestaurantFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS(cfg.CORSOrigins))
	engine.Use(middleware.DecompressRequest())
	// Websocket upgrades must not be wrapped by the gzip writer.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`/stream$`})))
	engine.Use(middleware.Identify(facade))

	authHandler := handlers.NewAuthHandler(facade)
	menuHandler := handlers.NewMenuHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	feedbackHandler := handlers.NewFeedbackHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade, facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.GET("/menu", menuHandler.List)
	api.GET("/menu/categories", menuHandler.Categories)
	api.GET("/menu/:id", menuHandler.Get)
	api.GET("/menu/:id/recommendations", menuHandler.Recommendations)
	api.POST("/estimate", menuHandler.Estimate)

	carts := api.Group("/carts")
	carts.POST("", cartHandler.Create)
	carts.GET("/:id", cartHandler.Get)
	carts.DELETE("/:id", cartHandler.Clear)
	carts.POST("/:id/items", cartHandler.AddItem)
	carts.PATCH("/:id/items/:itemId", cartHandler.UpdateItem)
	carts.DELETE("/:id/items/:itemId", cartHandler.RemoveItem)
	carts.PUT("/:id/table", cartHandler.SetTable)
	carts.GET("/:id/payment", cartHandler.Payment)
	carts.POST("/:id/checkout", cartHandler.Checkout)

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Place)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/ack", orderHandler.Acknowledge)
	orders.GET("/:id/stream", orderHandler.Stream)

	api.POST("/feedback", feedbackHandler.Submit)

	admin := api.Group("/admin")
	admin.POST("/login", authHandler.Login)
	admin.POST("/logout", authHandler.Logout)

	staff := admin.Group("")
	staff.Use(middleware.RequireRole(model.RoleAdmin))
	staff.GET("/orders", adminHandler.Orders)
	staff.PATCH("/orders/:id/status", adminHandler.UpdateStatus)
	staff.POST("/orders/:id/advance", adminHandler.Advance)
	staff.GET("/dashboard", adminHandler.Dashboard)
	staff.GET("/kitchen-load", adminHandler.KitchenLoad)
	staff.PUT("/kitchen-load", adminHandler.SetKitchenLoad)
	staff.GET("/feedback", adminHandler.Feedback)
	staff.GET("/stream", adminHandler.Stream)

	return engine
}
