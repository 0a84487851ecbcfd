package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rsharma91/aircargo/api"
	"github.com/rsharma91/aircargo/config"
	"github.com/rsharma91/aircargo/internal/auth"
	"github.com/rsharma91/aircargo/internal/service/booking"
	"github.com/rsharma91/aircargo/internal/service/routes"
	"github.com/rsharma91/aircargo/internal/service/tracking"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Services struct {
	Auth     auth.AuthUseCase
	Tokens   *auth.TokenManager
	Routes   routes.RouteUseCase
	Bookings booking.BookingUseCase
	Tracking tracking.TrackingUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, svc Services) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), auth.RequestID())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.SwaggerDir != "" {
		engine.Static("/swagger", cfg.HTTP.SwaggerDir)
		engine.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/aircargo.swagger.json"),
		)))
	}

	v1 := engine.Group("/api/v1")

	authHandler := api.NewAuthHandler(svc.Auth)
	authHandler.Register(v1.Group("/auth"))

	authenticated := v1.Group("")
	authenticated.Use(auth.Middleware(svc.Tokens))

	routeHandler := api.NewRouteHandler(svc.Routes)
	routeHandler.Register(authenticated.Group("/routes"))
	routeHandler.RegisterFlights(authenticated.Group("/flights"))

	bookingHandler := api.NewBookingHandler(svc.Bookings, svc.Tracking)
	bookingHandler.Register(authenticated.Group("/bookings"))

	return engine
}
