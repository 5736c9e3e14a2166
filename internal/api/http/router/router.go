package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harry9021/kata-sweet-shop/internal/api/http/handler"
	"github.com/Harry9021/kata-sweet-shop/internal/api/http/middleware"
	"github.com/Harry9021/kata-sweet-shop/internal/api/http/response"
	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
	"github.com/Harry9021/kata-sweet-shop/internal/ratelimit"
)

// Option configures optional parts of the router.
type Option func(*Router)

// WithCORSOrigins sets the allowed cross-origin callers. The default is "*".
func WithCORSOrigins(origins []string) Option {
	return func(r *Router) { r.corsOrigins = origins }
}

// WithRateLimiter throttles the register and login endpoints.
func WithRateLimiter(limiter ratelimit.Limiter) Option {
	return func(r *Router) { r.limiter = limiter }
}

// WithImages registers the sweet image endpoints.
func WithImages() Option {
	return func(r *Router) { r.imagesEnabled = true }
}

// Router wires handlers and middleware into a gin engine.
type Router struct {
	authService    handler.AuthService
	sweetService   handler.SweetService
	orderService   handler.OrderService
	tokens         middleware.TokenAuthenticator
	health         handler.HealthChecker
	contextManager model.ContextManager
	logger         *logger.Logger

	corsOrigins   []string
	limiter       ratelimit.Limiter
	imagesEnabled bool
}

// New creates new HTTP Router instance.
func New(
	authService handler.AuthService,
	sweetService handler.SweetService,
	orderService handler.OrderService,
	tokens middleware.TokenAuthenticator,
	health handler.HealthChecker,
	contextManager model.ContextManager,
	logger *logger.Logger,
	opts ...Option,
) *Router {
	r := &Router{
		authService:    authService,
		sweetService:   sweetService,
		orderService:   orderService,
		tokens:         tokens,
		health:         health,
		contextManager: contextManager,
		logger:         logger,
		corsOrigins:    []string{"*"},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register builds the engine with every route and middleware.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()

	logging := middleware.NewLogging(r.logger)
	engine.Use(
		logging.HandleHTTP,
		gin.CustomRecovery(r.recover),
		middleware.CORS(r.corsOrigins),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Envelope{Message: "Route not found: " + c.Request.URL.Path})
	})

	engine.GET("/health", handler.NewHealth(r.health).Get)

	api := engine.Group("/api")
	r.registerAuthRoutes(api)
	r.registerSweetRoutes(api)
	r.registerOrderRoutes(api)

	return engine
}

func (r *Router) recover(c *gin.Context, recovered any) {
	r.logger.Error("HTTP handler: panic recovered",
		"path", c.Request.URL.Path,
		"panic", fmt.Sprint(recovered))
	response.Error(c, nil, apierror.NewErrInternalServerError(fmt.Errorf("panic: %v", recovered)))
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup) {
	h := handler.NewAuth(r.authService, r.logger)
	throttle := middleware.RateLimit(r.limiter, r.logger)

	auth := api.Group("/auth")
	auth.POST("/register", throttle, h.Register)
	auth.POST("/login", throttle, h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", h.Logout)
}

func (r *Router) registerSweetRoutes(api *gin.RouterGroup) {
	h := handler.NewSweet(r.sweetService, r.contextManager, r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	admin := middleware.RequireRole(r.contextManager, model.RoleAdmin)

	sweets := api.Group("/sweets", authenticate.Handle)
	sweets.POST("", admin, h.Create)
	sweets.GET("", h.List)
	sweets.GET("/:id", h.Get)
	sweets.PUT("/:id", admin, h.Update)
	sweets.DELETE("/:id", admin, h.Delete)
	sweets.POST("/:id/purchase", h.Purchase)
	sweets.POST("/:id/restock", admin, h.Restock)

	if r.imagesEnabled {
		sweets.PUT("/:id/image", admin, h.UploadImage)
		sweets.GET("/:id/image", h.Image)
	}
}

func (r *Router) registerOrderRoutes(api *gin.RouterGroup) {
	h := handler.NewOrder(r.orderService, r.contextManager, r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	orders := api.Group("/orders", authenticate.Handle)
	orders.GET("/my-orders", h.MyOrders)
	orders.GET("/sales", middleware.RequireRole(r.contextManager, model.RoleAdmin), h.Sales)
}
