package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"autopilot/internal/models"
	"autopilot/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

// tokenPrefix marks issued keys; the rest is 32 bytes of randomness in hex.
const tokenPrefix = "flr_"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Registry issues credentials and authenticates callers. Authenticate is the
// single place usage accounting happens; the repository's touch keeps the
// read-and-increment atomic under concurrent calls for the same token.
type Registry struct {
	Repo   repository.CredentialRepository
	Logger *zap.Logger

	rlMu    sync.Mutex
	windows map[string]*rateWindow
}

type rateWindow struct {
	start time.Time
	count int
}

func NewRegistry(repo repository.CredentialRepository, logger *zap.Logger) *Registry {
	return &Registry{
		Repo:    repo,
		Logger:  logger,
		windows: map[string]*rateWindow{},
	}
}

func (r *Registry) Register(ctx context.Context, ownerAddress, displayName string) (*models.Credential, error) {
	ownerAddress = strings.TrimSpace(ownerAddress)
	if !addressPattern.MatchString(ownerAddress) {
		return nil, fmt.Errorf("%w: owner address must be a 0x-prefixed 40-hex-char string", ErrInvalidInput)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = "Anonymous"
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	tier := models.TierFree
	cred := &models.Credential{
		Token:        token,
		OwnerAddress: ownerAddress,
		DisplayName:  strings.TrimSpace(displayName),
		Tier:         tier,
		RateLimit:    models.RateLimitForTier(tier),
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.Repo.InsertCredential(ctx, cred); err != nil {
		return nil, err
	}
	if r.Logger != nil {
		r.Logger.Info("credential issued",
			zap.String("owner", ownerAddress),
			zap.String("tier", tier),
		)
	}
	return cred, nil
}

// Authenticate resolves a token, incrementing its request counter and
// stamping last-used as an observable side effect.
func (r *Registry) Authenticate(ctx context.Context, token string) (*models.Credential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	cred, err := r.Repo.TouchCredential(ctx, token, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrUnauthorized
	}
	return cred, nil
}

// AllowRequest applies the credential's hourly allowance with a fixed window
// per token. The window state is process-local; it bounds abuse, it is not an
// exact distributed quota.
func (r *Registry) AllowRequest(cred *models.Credential) error {
	if r == nil || cred == nil {
		return ErrUnauthorized
	}
	limit := cred.RateLimit
	if limit <= 0 {
		limit = models.RateLimitForTier(cred.Tier)
	}
	now := time.Now().UTC()

	r.rlMu.Lock()
	defer r.rlMu.Unlock()
	if r.windows == nil {
		r.windows = map[string]*rateWindow{}
	}
	w, ok := r.windows[cred.Token]
	if !ok || now.Sub(w.start) >= time.Hour {
		w = &rateWindow{start: now}
		r.windows[cred.Token] = w
	}
	if w.count >= limit {
		return fmt.Errorf("%w: %d requests per hour", ErrRateLimited, limit)
	}
	w.count++
	return nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return tokenPrefix + hex.EncodeToString(buf), nil
}
