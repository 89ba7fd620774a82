package app

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mochaeng/fcoder-gateway/internal/constants"
	"github.com/mochaeng/fcoder-gateway/internal/models"
	"github.com/mochaeng/fcoder-gateway/internal/store"
)

const (
	statusOK          = "ok"
	statusDegraded    = "degraded"
	statusUnavailable = "unavailable"
)

func (app *Application) healthHandler(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, models.HealthResponse{
		Status:  statusOK,
		Service: constants.ServiceName,
	})
}

// readyHandler reports 503 only when the store is unreachable. A failing or
// unchecked gateway degrades readiness without failing it.
func (app *Application) readyHandler(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := context.WithTimeout(ctx, app.config.RequestTimeout)
	defer cancel()

	if err := app.store.Ping(reqCtx); err != nil {
		app.log.Warn("store unreachable", zap.Error(err))
		writeJSON(ctx, fasthttp.StatusServiceUnavailable, models.ReadinessResponse{Status: statusUnavailable})
		return
	}

	health, err := app.store.GetGatewayHealth(reqCtx, constants.VNPayGateway)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			app.log.Warn("failed to read gateway health", zap.Error(err))
		}
		writeJSON(ctx, fasthttp.StatusOK, models.ReadinessResponse{Status: statusDegraded})
		return
	}

	status := statusOK
	if health.Failing {
		status = statusDegraded
	}
	writeJSON(ctx, fasthttp.StatusOK, models.ReadinessResponse{
		Status:  status,
		Gateway: health,
	})
}

func methodNotAllowed(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method not allowed"})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}
