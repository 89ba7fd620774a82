package models

import "time"

// GatewayHealth is the last observed reachability of a payment gateway.
type GatewayHealth struct {
	Failing        bool      `json:"failing"`
	StatusCode     int       `json:"statusCode"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	LastChecked    time.Time `json:"lastChecked"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type ReadinessResponse struct {
	Status  string         `json:"status"`
	Gateway *GatewayHealth `json:"gateway,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
