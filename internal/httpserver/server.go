package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Ayoublby/full-store/internal/imagestore"
	productrepo "github.com/Ayoublby/full-store/internal/repository/product"
)

// Deps are the collaborators the HTTP layer serves.
type Deps struct {
	Products productrepo.Repository
	Images   *imagestore.Store
	// SiteDir, when set, is served for unmatched routes so the static
	// storefront pages can be hosted by the same process.
	SiteDir string
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

// New builds a Server with the API routes wired.
func New(addr string, logger zerolog.Logger, deps Deps) (*Server, error) {
	router := buildRouter(logger, deps)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(products productrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if products == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "product store not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if _, err := products.Stats(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "product store not readable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
