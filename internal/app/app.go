package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mochaeng/fcoder-gateway/internal/config"
	"github.com/mochaeng/fcoder-gateway/internal/constants"
	"github.com/mochaeng/fcoder-gateway/internal/models"
	"github.com/mochaeng/fcoder-gateway/internal/services"
	"github.com/mochaeng/fcoder-gateway/internal/store"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"

	shutdownTimeout = 10 * time.Second
)

type healthStore interface {
	services.HealthStore
	GetGatewayHealth(ctx context.Context, gateway constants.Gateway) (*models.GatewayHealth, error)
	Ping(ctx context.Context) error
	Close() error
}

type Application struct {
	config   *config.Config
	services *services.Service
	store    healthStore
	log      *zap.Logger
}

func NewApp(cfg *config.Config, log *zap.Logger) (*Application, error) {
	store, err := store.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services.NewServices(cfg, store, log),
		store:    store,
		log:      log,
	}, nil
}

func (app *Application) Services() *services.Service {
	return app.services
}

func (app *Application) Mount() *fasthttp.Server {
	return &fasthttp.Server{
		Name: constants.ServiceName,
		Handler: func(ctx *fasthttp.RequestCtx) {
			ctx.Response.Header.Set("Content-Type", "application/json")

			correlationID := string(ctx.Request.Header.Peek(CorrelationIDHeader))
			if correlationID == "" {
				correlationID = uuid.New().String()
			}
			ctx.Response.Header.Set(CorrelationIDHeader, correlationID)

			switch string(ctx.Path()) {
			case "/health":
				if ctx.IsGet() {
					app.healthHandler(ctx)
				} else {
					methodNotAllowed(ctx)
				}
			case "/ready":
				if ctx.IsGet() {
					app.readyHandler(ctx)
				} else {
					methodNotAllowed(ctx)
				}
			default:
				writeJSON(ctx, fasthttp.StatusNotFound, models.ErrorResponse{Error: "Not found"})
			}

			app.log.Debug("request served",
				zap.String("correlation_id", correlationID),
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", ctx.Response.StatusCode()),
			)
		},
	}
}

// Run starts the gateway monitor and serves until ctx is cancelled, then
// shuts the server down and closes the store.
func (app *Application) Run(ctx context.Context, server *fasthttp.Server) error {
	ln, err := net.Listen("tcp", ":"+app.config.Port)
	if err != nil {
		app.store.Close()
		return fmt.Errorf("failed to listen on port %s: %w", app.config.Port, err)
	}
	return app.Serve(ctx, server, ln)
}

func (app *Application) Serve(ctx context.Context, server *fasthttp.Server, ln net.Listener) error {
	defer app.store.Close()

	// stops the monitor on every return path, including a failed Serve
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.services.Monitor.Start(ctx)

	app.log.Info("starting server",
		zap.String("addr", ln.Addr().String()),
		zap.Object("vnpay", app.config.VNPay),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.log.Info("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	err := server.ShutdownWithContext(shutdownCtx)
	// Serve may not have registered ln yet.
	_ = ln.Close()
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
