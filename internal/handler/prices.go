package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"autopilot/internal/signal"
)

type PriceHandler struct {
	Hub *signal.Hub
}

func (h *PriceHandler) Register(group *gin.RouterGroup) {
	group.GET("/ftso/price/:symbol", h.price)
	group.GET("/ftso/prices", h.prices)
}

// @Summary Latest price for one symbol
// @Tags prices
// @Produce json
// @Param symbol path string true "asset symbol"
// @Success 200 {object} map[string]any
// @Router /api/ftso/price/{symbol} [get]
func (h *PriceHandler) price(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		Error(c, http.StatusBadRequest, "symbol required", nil)
		return
	}
	snap := h.Hub.Snapshot()
	price, ok := snap.Price(symbol)
	if !ok {
		Error(c, http.StatusNotFound, "no price for symbol", nil)
		return
	}
	Ok(c, map[string]any{
		"symbol": symbol,
		"price":  price,
		"at":     snap.At,
	}, nil)
}

// @Summary All known prices
// @Tags prices
// @Produce json
// @Param symbols query string false "comma-separated symbol filter"
// @Success 200 {object} map[string]any
// @Router /api/ftso/prices [get]
func (h *PriceHandler) prices(c *gin.Context) {
	snap := h.Hub.Snapshot()
	prices := snap.Prices
	if raw := strings.TrimSpace(c.Query("symbols")); raw != "" {
		filtered := make(map[string]decimal.Decimal)
		for _, symbol := range strings.Split(raw, ",") {
			symbol = strings.ToUpper(strings.TrimSpace(symbol))
			if price, ok := snap.Price(symbol); ok {
				filtered[symbol] = price
			}
		}
		prices = filtered
	}
	Ok(c, map[string]any{
		"prices": prices,
		"at":     snap.At,
	}, map[string]any{"count": len(prices)})
}
