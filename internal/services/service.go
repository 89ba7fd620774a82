package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/mochaeng/fcoder-gateway/internal/config"
)

type Service struct {
	Monitor interface {
		Start(ctx context.Context)
		Check(ctx context.Context) error
	}
}

func NewServices(cfg *config.Config, store HealthStore, log *zap.Logger) *Service {
	return &Service{
		Monitor: NewGatewayMonitor(cfg, store, log),
	}
}
