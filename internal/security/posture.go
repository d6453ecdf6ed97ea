package security

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"autopilot/internal/models"
	"autopilot/internal/repository"
)

// Level is the ordered process-wide threat level.
type Level int

const (
	LevelSafe Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelSafe:
		return "SAFE"
	case LevelLow:
		return "LOW"
	case LevelMedium:
		return "MEDIUM"
	case LevelHigh:
		return "HIGH"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a severity name to a Level, defaulting to LOW for anything
// unrecognized so an ill-formed report still raises attention.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SAFE":
		return LevelSafe
	case "LOW":
		return LevelLow
	case "MEDIUM":
		return LevelMedium
	case "HIGH":
		return LevelHigh
	case "CRITICAL":
		return LevelCritical
	default:
		return LevelLow
	}
}

// alertLogRetention bounds the in-memory alert log to the most recent entries.
const alertLogRetention = 10

// State is a read-only snapshot of the posture.
type State struct {
	ThreatLevel           Level
	CircuitBreakerActive  bool
	ThreatsDetected       uint64
	LastThreatDescription string
	Alerts                []models.SecurityAlert
}

// Posture is the process-wide threat state machine. The threat level only
// ratchets up; once the circuit breaker engages it stays engaged until an
// explicit Reset. All fields of one transition are updated in a single
// critical section so readers never observe level and breaker out of sync.
type Posture struct {
	mu sync.RWMutex

	level           Level
	breaker         bool
	threatsDetected uint64
	lastDescription string
	alerts          []models.SecurityAlert
	alertSeq        uint64

	// Sink optionally persists alerts; best-effort, never blocks a report.
	Sink   repository.AlertRepository
	Logger *zap.Logger
}

func NewPosture(sink repository.AlertRepository, logger *zap.Logger) *Posture {
	return &Posture{Sink: sink, Logger: logger}
}

// ReportThreat raises the threat level to max(current, severity), appends the
// alert, and syncs the circuit breaker.
func (p *Posture) ReportThreat(ctx context.Context, source string, severity Level, description string) {
	if p == nil {
		return
	}
	alert := models.SecurityAlert{
		Source:      source,
		Severity:    severity.String(),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	p.mu.Lock()
	if severity > p.level {
		p.level = severity
	}
	p.threatsDetected++
	p.lastDescription = description
	p.alertSeq++
	alert.ID = p.alertSeq
	p.alerts = append(p.alerts, alert)
	if len(p.alerts) > alertLogRetention {
		p.alerts = p.alerts[len(p.alerts)-alertLogRetention:]
	}
	p.breaker = p.level >= LevelHigh
	level, breaker := p.level, p.breaker
	p.mu.Unlock()

	if p.Logger != nil {
		p.Logger.Warn("threat reported",
			zap.String("source", source),
			zap.String("severity", severity.String()),
			zap.String("level", level.String()),
			zap.Bool("circuit_breaker", breaker),
		)
	}
	if p.Sink != nil {
		// The sink assigns its own id; the in-memory seq is log-local.
		persisted := alert
		persisted.ID = 0
		_ = p.Sink.InsertSecurityAlert(ctx, &persisted)
	}
}

// Reset restores SAFE/inactive and clears the counter. The alert log is kept;
// operators still want to see what tripped the breaker.
func (p *Posture) Reset(ctx context.Context) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.level = LevelSafe
	p.breaker = false
	p.threatsDetected = 0
	p.lastDescription = ""
	p.mu.Unlock()

	if p.Logger != nil {
		p.Logger.Info("security posture reset")
	}
}

// CircuitBreakerActive is the hot-path read used by the execution gate.
func (p *Posture) CircuitBreakerActive() bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.breaker
}

// Status returns a copy of the current state.
func (p *Posture) Status() State {
	if p == nil {
		return State{}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	alerts := make([]models.SecurityAlert, len(p.alerts))
	copy(alerts, p.alerts)
	return State{
		ThreatLevel:           p.level,
		CircuitBreakerActive:  p.breaker,
		ThreatsDetected:       p.threatsDetected,
		LastThreatDescription: p.lastDescription,
		Alerts:                alerts,
	}
}
