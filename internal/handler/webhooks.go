package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autopilot/internal/models"
	"autopilot/internal/webhook"
)

type WebhookHandler struct {
	Notifier *webhook.Notifier
}

func (h *WebhookHandler) Register(group *gin.RouterGroup) {
	group.POST("/webhooks", h.create)
	group.GET("/webhooks", h.list)
}

type createWebhookRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

// @Summary Register a webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body createWebhookRequest true "target url and subscribed events"
// @Success 200 {object} map[string]any
// @Router /api/webhooks [post]
func (h *WebhookHandler) create(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	hook, err := h.Notifier.Register(c.Request.Context(), cred.OwnerAddress, req.URL, req.Events)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, hook, nil)
}

// @Summary List own webhooks
// @Tags webhooks
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/webhooks [get]
func (h *WebhookHandler) list(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	hooks, err := h.Notifier.ListByOwner(c.Request.Context(), cred.OwnerAddress)
	if err != nil {
		Fail(c, err)
		return
	}
	if hooks == nil {
		hooks = []models.Webhook{}
	}
	Ok(c, hooks, map[string]any{"count": len(hooks)})
}
