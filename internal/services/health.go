package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mochaeng/fcoder-gateway/internal/config"
	"github.com/mochaeng/fcoder-gateway/internal/constants"
	"github.com/mochaeng/fcoder-gateway/internal/models"
)

type HealthStore interface {
	SetGatewayHealth(ctx context.Context, gateway constants.Gateway, health models.GatewayHealth, ttl time.Duration) error
}

// GatewayMonitor periodically probes the VNPay API URL and records whether
// it answered.
type GatewayMonitor struct {
	store      HealthStore
	config     *config.Config
	httpClient *fasthttp.Client
	log        *zap.Logger
}

func NewGatewayMonitor(cfg *config.Config, store HealthStore, log *zap.Logger) *GatewayMonitor {
	return &GatewayMonitor{
		store:  store,
		config: cfg,
		httpClient: &fasthttp.Client{
			Name:         constants.ServiceName,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		log: log.With(zap.String("gateway", string(constants.VNPayGateway))),
	}
}

// Start checks once and then every HealthCheckInterval until ctx is done.
func (m *GatewayMonitor) Start(ctx context.Context) {
	go m.monitorLoop(ctx)
}

func (m *GatewayMonitor) monitorLoop(ctx context.Context) {
	ticker := time.NewTicker(m.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		if err := m.Check(ctx); err != nil && ctx.Err() == nil {
			m.log.Warn("gateway health check failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Check probes the gateway and stores the result. The returned error is
// non-nil when the gateway is failing or the result could not be stored.
func (m *GatewayMonitor) Check(ctx context.Context) error {
	start := time.Now()
	status, probeErr := m.probeWithRetry(ctx)

	health := models.GatewayHealth{
		Failing:        probeErr != nil,
		StatusCode:     status,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		LastChecked:    time.Now().UTC(),
	}

	ttl := 3 * m.config.HealthCheckInterval
	if err := m.store.SetGatewayHealth(ctx, constants.VNPayGateway, health, ttl); err != nil {
		return fmt.Errorf("failed to record gateway health: %w", err)
	}

	m.log.Debug("gateway health recorded",
		zap.Bool("failing", health.Failing),
		zap.Int("status", health.StatusCode),
		zap.Int64("response_time_ms", health.ResponseTimeMs),
	)

	return probeErr
}

func (m *GatewayMonitor) probeWithRetry(ctx context.Context) (int, error) {
	var status int

	operation := func() error {
		var err error
		status, err = m.probe()
		return err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 100 * time.Millisecond
	expBackoff.MaxInterval = m.config.RequestTimeout

	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(m.config.HealthCheckRetries)), ctx)
	err := backoff.Retry(operation, policy)
	return status, err
}

func (m *GatewayMonitor) probe() (int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(m.config.VNPay.APIURL())
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := m.httpClient.DoTimeout(req, resp, m.config.RequestTimeout); err != nil {
		return 0, fmt.Errorf("failed to reach gateway: %w", err)
	}

	status := resp.StatusCode()
	if status >= fasthttp.StatusInternalServerError {
		return status, fmt.Errorf("gateway error with status code [%d]", status)
	}
	return status, nil
}
