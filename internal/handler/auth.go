package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autopilot/internal/identity"
	"autopilot/internal/models"
)

type AuthHandler struct {
	Registry *identity.Registry
}

// Register mounts the public registration route.
func (h *AuthHandler) Register(r *gin.Engine) {
	r.POST("/api/auth/register", h.register)
}

// RegisterProtected mounts the routes behind the API-key middleware.
func (h *AuthHandler) RegisterProtected(group *gin.RouterGroup) {
	group.GET("/auth/key", h.keyInfo)
}

type registerRequest struct {
	OwnerAddress string `json:"owner_address"`
	DisplayName  string `json:"display_name"`
}

type credentialView struct {
	Token        string `json:"token,omitempty"`
	OwnerAddress string `json:"owner_address"`
	DisplayName  string `json:"display_name"`
	Tier         string `json:"tier"`
	RateLimit    int    `json:"rate_limit"`
	RequestCount uint64 `json:"request_count"`
	LastUsedAt   any    `json:"last_used_at,omitempty"`
	CreatedAt    any    `json:"created_at"`
}

func viewCredential(cred *models.Credential, includeToken bool) credentialView {
	view := credentialView{
		OwnerAddress: cred.OwnerAddress,
		DisplayName:  cred.DisplayName,
		Tier:         cred.Tier,
		RateLimit:    cred.RateLimit,
		RequestCount: cred.RequestCount,
		CreatedAt:    cred.CreatedAt,
	}
	if includeToken {
		view.Token = cred.Token
	}
	if cred.LastUsedAt != nil {
		view.LastUsedAt = *cred.LastUsedAt
	}
	return view
}

// @Summary Register an API credential
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "owner address and display name"
// @Success 200 {object} map[string]any
// @Router /api/auth/register [post]
func (h *AuthHandler) register(c *gin.Context) {
	if h.Registry == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	cred, err := h.Registry.Register(c.Request.Context(), req.OwnerAddress, req.DisplayName)
	if err != nil {
		Fail(c, err)
		return
	}
	// The token is shown exactly once, here.
	Ok(c, viewCredential(cred, true), nil)
}

// @Summary Inspect the calling credential
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/auth/key [get]
func (h *AuthHandler) keyInfo(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	Ok(c, viewCredential(cred, false), nil)
}
