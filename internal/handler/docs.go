package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterDocs serves a short human-readable API overview. The full schema
// lives under /swagger.
func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Autopilot Service

Automated strategy execution against live price and event feeds.

## Auth

POST /api/auth/register issues an API key (shown once). All other /api/*
routes require it in the X-API-Key header. Requests count against the
credential tier's hourly allowance.

## Routes

- GET  /healthz, GET /readyz
- POST /api/auth/register
- GET  /api/auth/key
- POST /api/strategies
- GET  /api/strategies
- GET  /api/strategies/:id
- DELETE /api/strategies/:id
- POST /api/strategies/:id/pause
- POST /api/strategies/:id/resume
- GET  /api/strategies/:id/executions
- GET  /api/security/status
- GET  /api/security/threats
- POST /api/security/check
- POST /api/security/reset (admin credential only)
- GET  /api/ftso/price/:symbol
- GET  /api/ftso/prices
- POST /api/webhooks
- GET  /api/webhooks

## Responses

Every JSON response is wrapped as {"code", "message", "data", "meta"};
code 0 means success, otherwise it mirrors the HTTP status.
`)
	})
}
