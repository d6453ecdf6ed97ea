package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"autopilot/internal/security"
	"autopilot/internal/signal"
)

// ThreatReport is one detection from an external intelligence source.
type ThreatReport struct {
	Source      string `json:"source"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// ThreatSource produces threat reports. A failed scan yields no reports, not
// an alert; a dead feed is a health problem, not a threat.
type ThreatSource interface {
	Name() string
	Scan(ctx context.Context) ([]ThreatReport, error)
}

// HTTPThreatSource polls an intelligence endpoint answering
// {"threats": [{"source","severity","description"}, ...]}.
type HTTPThreatSource struct {
	SourceName string
	Endpoint   string
	HTTP       *http.Client
}

func (s *HTTPThreatSource) Name() string { return s.SourceName }

func (s *HTTPThreatSource) Scan(ctx context.Context) ([]ThreatReport, error) {
	client := s.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	var parsed struct {
		Threats []ThreatReport `json:"threats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	for i := range parsed.Threats {
		if parsed.Threats[i].Source == "" {
			parsed.Threats[i].Source = s.SourceName
		}
	}
	return parsed.Threats, nil
}

// SecurityScanner feeds the posture: it polls threat sources and watches the
// signal hub for abrupt price moves between scans, reporting those as HIGH
// anomalies.
type SecurityScanner struct {
	Posture *security.Posture
	Hub     *signal.Hub
	Sources []ThreatSource
	// AnomalyPct is the absolute percent move between consecutive scans that
	// counts as an anomaly.
	AnomalyPct float64
	Logger     *zap.Logger

	mu       sync.Mutex
	baseline map[string]decimal.Decimal
}

func (s *SecurityScanner) Scan(ctx context.Context) {
	if s == nil || s.Posture == nil {
		return
	}
	for _, src := range s.Sources {
		reports, err := src.Scan(ctx)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Debug("threat source scan failed",
					zap.String("source", src.Name()),
					zap.Error(err),
				)
			}
			continue
		}
		for _, rep := range reports {
			s.Posture.ReportThreat(ctx, rep.Source, security.ParseLevel(rep.Severity), rep.Description)
		}
	}
	s.scanPriceAnomalies(ctx)
}

func (s *SecurityScanner) scanPriceAnomalies(ctx context.Context) {
	if s.Hub == nil || s.AnomalyPct <= 0 {
		return
	}
	snap := s.Hub.Snapshot()

	s.mu.Lock()
	prev := s.baseline
	next := map[string]decimal.Decimal{}
	for sym, price := range snap.Prices {
		next[sym] = price
	}
	s.baseline = next
	s.mu.Unlock()

	threshold := decimal.NewFromFloat(s.AnomalyPct)
	for sym, price := range snap.Prices {
		base, ok := prev[sym]
		if !ok || base.LessThanOrEqual(decimal.Zero) {
			continue
		}
		changePct := price.Sub(base).Div(base).Mul(decimal.NewFromInt(100)).Abs()
		if changePct.LessThan(threshold) {
			continue
		}
		s.Posture.ReportThreat(ctx, "price_monitor", security.LevelHigh,
			fmt.Sprintf("%s price moved %s%% between scans", sym, changePct.StringFixed(2)))
	}
}
