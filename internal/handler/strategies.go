package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"autopilot/internal/models"
	"autopilot/internal/repository"
	"autopilot/internal/strategy"
)

type StrategyHandler struct {
	Store      *strategy.Store
	Breaker    strategy.BreakerState
	Executions repository.ExecutionRepository
}

func (h *StrategyHandler) Register(group *gin.RouterGroup) {
	group.POST("/strategies", h.create)
	group.GET("/strategies", h.list)
	group.GET("/strategies/:id", h.get)
	group.DELETE("/strategies/:id", h.remove)
	group.POST("/strategies/:id/pause", h.pause)
	group.POST("/strategies/:id/resume", h.resume)
	group.GET("/strategies/:id/executions", h.executions)
}

type triggerRequest struct {
	Type string `json:"type"`

	// price trigger
	Asset     string          `json:"asset"`
	Condition string          `json:"condition"`
	Target    decimal.Decimal `json:"target"`

	// event trigger
	Name         string          `json:"name"`
	MinMagnitude decimal.Decimal `json:"min_magnitude"`

	// time trigger
	At *time.Time `json:"at"`
}

func (r triggerRequest) toTrigger() strategy.Trigger {
	trig := strategy.Trigger{Kind: strings.TrimSpace(r.Type)}
	switch trig.Kind {
	case models.TriggerTypePrice:
		trig.Price = &strategy.PriceTrigger{
			Asset:     strings.ToUpper(strings.TrimSpace(r.Asset)),
			Condition: r.Condition,
			Target:    r.Target,
		}
	case models.TriggerTypeEvent:
		trig.Event = &strategy.EventTrigger{
			Name:         strings.TrimSpace(r.Name),
			MinMagnitude: r.MinMagnitude,
		}
	case models.TriggerTypeTime:
		if r.At != nil {
			trig.Time = &strategy.TimeTrigger{At: *r.At}
		}
	}
	return trig
}

type createStrategyRequest struct {
	Trigger       triggerRequest  `json:"trigger"`
	Action        string          `json:"action"`
	Amount        decimal.Decimal `json:"amount"`
	Protected     bool            `json:"protected"`
	MaxExecutions uint64          `json:"max_executions"`
}

type strategyView struct {
	ID             string          `json:"id"`
	OwnerAddress   string          `json:"owner_address"`
	TriggerType    string          `json:"trigger_type"`
	Trigger        json.RawMessage `json:"trigger"`
	Action         string          `json:"action"`
	Amount         decimal.Decimal `json:"amount"`
	Protected      bool            `json:"protected"`
	State          string          `json:"state"`
	ExecutionCount uint64          `json:"execution_count"`
	MaxExecutions  uint64          `json:"max_executions"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (h *StrategyHandler) view(item models.Strategy) strategyView {
	breakerActive := h.Breaker != nil && h.Breaker.CircuitBreakerActive()
	return strategyView{
		ID:             item.ID,
		OwnerAddress:   item.OwnerAddress,
		TriggerType:    item.TriggerType,
		Trigger:        json.RawMessage(item.Trigger),
		Action:         item.Action,
		Amount:         item.Amount,
		Protected:      item.Protected,
		State:          strategy.StateOf(item, breakerActive),
		ExecutionCount: item.ExecutionCount,
		MaxExecutions:  item.MaxExecutions,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

// @Summary Create a strategy
// @Tags strategies
// @Accept json
// @Produce json
// @Param request body createStrategyRequest true "strategy definition"
// @Success 200 {object} map[string]any
// @Router /api/strategies [post]
func (h *StrategyHandler) create(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	item, err := h.Store.Create(c.Request.Context(), cred.OwnerAddress, strategy.Definition{
		Trigger:       req.Trigger.toTrigger(),
		Action:        req.Action,
		Amount:        req.Amount,
		Protected:     req.Protected,
		MaxExecutions: req.MaxExecutions,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, h.view(*item), nil)
}

// @Summary List own strategies
// @Tags strategies
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/strategies [get]
func (h *StrategyHandler) list(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	items, err := h.Store.ListByOwner(c.Request.Context(), cred.OwnerAddress)
	if err != nil {
		Fail(c, err)
		return
	}
	views := make([]strategyView, 0, len(items))
	for _, item := range items {
		views = append(views, h.view(item))
	}
	Ok(c, views, map[string]any{"count": len(views)})
}

// @Summary Get one strategy
// @Tags strategies
// @Produce json
// @Param id path string true "strategy id"
// @Success 200 {object} map[string]any
// @Router /api/strategies/{id} [get]
func (h *StrategyHandler) get(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	item, err := h.Store.Get(c.Request.Context(), c.Param("id"), cred.OwnerAddress)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, h.view(*item), nil)
}

// @Summary Delete a strategy
// @Tags strategies
// @Produce json
// @Param id path string true "strategy id"
// @Success 200 {object} map[string]any
// @Router /api/strategies/{id} [delete]
func (h *StrategyHandler) remove(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id := c.Param("id")
	if err := h.Store.Delete(c.Request.Context(), id, cred.OwnerAddress); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, map[string]any{"id": id, "deleted": true}, nil)
}

func (h *StrategyHandler) pause(c *gin.Context) {
	h.setActive(c, false)
}

func (h *StrategyHandler) resume(c *gin.Context) {
	h.setActive(c, true)
}

func (h *StrategyHandler) setActive(c *gin.Context, active bool) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id := c.Param("id")
	if err := h.Store.SetActive(c.Request.Context(), id, cred.OwnerAddress, active); err != nil {
		Fail(c, err)
		return
	}
	item, err := h.Store.Get(c.Request.Context(), id, cred.OwnerAddress)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, h.view(*item), nil)
}

// @Summary List a strategy's execution history
// @Tags strategies
// @Produce json
// @Param id path string true "strategy id"
// @Param limit query int false "max records, default 50"
// @Success 200 {object} map[string]any
// @Router /api/strategies/{id}/executions [get]
func (h *StrategyHandler) executions(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id := c.Param("id")
	// Ownership check first; history is as private as the strategy itself.
	if _, err := h.Store.Get(c.Request.Context(), id, cred.OwnerAddress); err != nil {
		Fail(c, err)
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(c, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = n
	}
	records, err := h.Executions.ListExecutionRecordsByStrategy(c.Request.Context(), id, limit)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, records, map[string]any{"count": len(records)})
}
