package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mpetrov/aviabooking/api"
	"github.com/mpetrov/aviabooking/config"
	"github.com/mpetrov/aviabooking/internal/auth"
	"github.com/mpetrov/aviabooking/internal/domain"
)

// Handlers bundles the HTTP handler set wired by the composition root.
type Handlers struct {
	Auth    *api.AuthHandler
	Flights *api.FlightHandler
	Booking *api.BookingHandler
	Company *api.CompanyHandler
	Admin   *api.AdminHandler
	Content *api.ContentHandler
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, tokens *auth.TokenManager, handlers Handlers, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, tokens, handlers),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, tokens *auth.TokenManager, h Handlers) *gin.Engine {
	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/api")
	authed := router.Group("/api", api.JWTAuth(tokens))

	h.Auth.Register(public, authed)
	h.Flights.Register(public.Group("/flights"))
	h.Content.Register(public)
	h.Booking.Register(authed.Group("/flights"), authed.Group("/tickets"))

	company := authed.Group("/company", api.RequireRole(domain.RoleCompanyManager))
	h.Company.Register(company)

	admin := authed.Group("/admin", api.RequireRole(domain.RoleAdmin))
	h.Admin.Register(admin)

	return router
}
