package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Ayoublby/full-store/internal/imagestore"
)

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))
	router.MaxMultipartMemory = imagestore.MaxFileSize

	h := &handlers{
		products: deps.Products,
		images:   deps.Images,
		logger:   logger.With().Str("component", "http").Logger(),
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Products))

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.POST("/products", h.createProduct)
		api.PUT("/products/:id", h.updateProduct)
		// gin's route tree cannot mix the :id parameter with a static
		// sibling in the same method tree, so DELETE bulk-delete is
		// dispatched inside deleteProduct.
		api.DELETE("/products/:id", h.deleteProduct)
		api.POST("/products/bulk-update", h.bulkUpdateProducts)
		api.POST("/upload-images", h.uploadImages)
		api.GET("/stats", h.stats)
	}

	if deps.Images != nil {
		router.Static("/images/uploaded", deps.Images.Dir())
	}
	if deps.SiteDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(deps.SiteDir))))
	}

	return router
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
