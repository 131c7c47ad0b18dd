package routes

import (
	"time"

	"astrodesk/config"
	"astrodesk/handlers"
	"astrodesk/middleware"
	"astrodesk/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterBookingRoutes registers the public consultation booking endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/availability", hb.Booking.CheckAvailabilityHandler)
	api.POST("/book", hb.Booking.CreateBookingHandler)
}

// RegisterShopRoutes registers the public product and order endpoints.
func RegisterShopRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/products", hb.Catalog.ListProductsHandler)
	api.GET("/products/:id", hb.Catalog.GetProductHandler)
	api.POST("/orders", hb.Catalog.CreateOrderHandler)
}

// RegisterArticleRoutes registers the public blog endpoints.
func RegisterArticleRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/articles", hb.Articles.ListArticlesHandler)
	api.GET("/articles/:id", hb.Articles.GetArticleHandler)
}

// RegisterAdminRoutes sets up endpoints for admin operations. Each one checks the shared
// admin password itself.
func RegisterAdminRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	adminGroup := api.Group("/admin")
	{
		adminGroup.Use(middleware.AdminPasswordMiddleware())
		adminGroup.POST("/verify", hb.Admin.VerifyHandler)

		adminGroup.POST("/products", hb.Admin.CreateProductHandler)
		adminGroup.PUT("/products/:id", hb.Admin.UpdateProductHandler)
		adminGroup.DELETE("/products/:id", hb.Admin.DeleteProductHandler)

		adminGroup.POST("/articles", hb.Articles.CreateArticleHandler)
		adminGroup.PUT("/articles/:id", hb.Articles.UpdateArticleHandler)
		adminGroup.DELETE("/articles/:id", hb.Articles.DeleteArticleHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
}

// RegisterRoutes centralizes registration of all endpoints and the CORS policy.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, hb *handlers.HandlerBundle) {
	origins := cfg.AllowedOrigins()
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Admin-Password", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	RegisterBookingRoutes(api, hb)
	RegisterShopRoutes(api, hb)
	RegisterArticleRoutes(api, hb)
	RegisterAdminRoutes(api, hb)
	RegisterHealthRoute(r, hb)
}

// NewRouter builds the gin engine with the global middleware chain and every route.
func NewRouter(cfg *config.Config, logger *zap.Logger, hb *handlers.HandlerBundle) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Warn("Invalid TRUSTED_PROXIES, trusting no proxy", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))
	router.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	router.Use(middleware.BodyLimit(cfg.MaxUploadMB << 20))
	router.MaxMultipartMemory = 8 << 20

	RegisterRoutes(router, cfg, hb)
	return router
}
