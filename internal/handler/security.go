package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autopilot/internal/models"
	"autopilot/internal/security"
)

type SecurityHandler struct {
	Posture *security.Posture
	// AdminAddress is the only owner allowed to reset the posture. Empty means
	// nobody can.
	AdminAddress string
	// Denylist addresses always assess as unsafe.
	Denylist []string
}

func (h *SecurityHandler) Register(group *gin.RouterGroup) {
	group.GET("/security/status", h.status)
	group.GET("/security/threats", h.threats)
	group.POST("/security/check", h.check)
	group.POST("/security/reset", h.reset)
}

type postureView struct {
	ThreatLevel          string `json:"threat_level"`
	CircuitBreakerActive bool   `json:"circuit_breaker_active"`
	ThreatsDetected      uint64 `json:"threats_detected"`
	LastThreat           string `json:"last_threat,omitempty"`
}

// @Summary Current security posture
// @Tags security
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/security/status [get]
func (h *SecurityHandler) status(c *gin.Context) {
	state := h.Posture.Status()
	Ok(c, postureView{
		ThreatLevel:          state.ThreatLevel.String(),
		CircuitBreakerActive: state.CircuitBreakerActive,
		ThreatsDetected:      state.ThreatsDetected,
		LastThreat:           state.LastThreatDescription,
	}, nil)
}

// @Summary Recent security alerts
// @Tags security
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/security/threats [get]
func (h *SecurityHandler) threats(c *gin.Context) {
	state := h.Posture.Status()
	alerts := state.Alerts
	if alerts == nil {
		alerts = []models.SecurityAlert{}
	}
	Ok(c, alerts, map[string]any{"count": len(alerts)})
}

type checkRequest struct {
	Address string `json:"address"`
}

type checkResult struct {
	Address     string   `json:"address"`
	Safe        bool     `json:"safe"`
	ThreatLevel string   `json:"threat_level"`
	Flags       []string `json:"flags"`
}

// @Summary Assess an address against the denylist and current posture
// @Tags security
// @Accept json
// @Produce json
// @Param request body checkRequest true "address to assess"
// @Success 200 {object} map[string]any
// @Router /api/security/check [post]
func (h *SecurityHandler) check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Address) == "" {
		Error(c, http.StatusBadRequest, "address required", nil)
		return
	}
	addr := strings.TrimSpace(req.Address)
	state := h.Posture.Status()

	result := checkResult{
		Address:     addr,
		Safe:        true,
		ThreatLevel: state.ThreatLevel.String(),
		Flags:       []string{},
	}
	for _, denied := range h.Denylist {
		if strings.EqualFold(strings.TrimSpace(denied), addr) {
			result.Safe = false
			result.Flags = append(result.Flags, "denylisted")
			break
		}
	}
	if state.CircuitBreakerActive {
		result.Safe = false
		result.Flags = append(result.Flags, "circuit_breaker_active")
	}
	Ok(c, result, nil)
}

// @Summary Reset the security posture
// @Tags security
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/security/reset [post]
func (h *SecurityHandler) reset(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if h.AdminAddress == "" || !strings.EqualFold(cred.OwnerAddress, h.AdminAddress) {
		Error(c, http.StatusForbidden, "reset requires the admin credential", nil)
		return
	}
	h.Posture.Reset(c.Request.Context())
	state := h.Posture.Status()
	Ok(c, postureView{
		ThreatLevel:          state.ThreatLevel.String(),
		CircuitBreakerActive: state.CircuitBreakerActive,
		ThreatsDetected:      state.ThreatsDetected,
	}, nil)
}
