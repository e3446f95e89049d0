package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/tutorchat/client/pkg/logger"
	"github.com/tutorchat/client/pkg/store"
)

type AuthSession interface {
	IsAuthenticated() bool
	Token() string
	Refresh(ctx context.Context) error
}

// sessionRefresher keeps the bearer token alive: when it is within the lead
// window of its expiry, exchange it for a fresh one. A failed refresh is not
// retried here; the next tick tries again, and an actual 401 is handled by
// the transport's unauthorized path.
type sessionRefresher struct {
	auth          AuthSession
	lead          time.Duration
	checkInterval time.Duration
}

func NewSessionRefresher(auth AuthSession, lead, checkInterval time.Duration) *sessionRefresher {
	return &sessionRefresher{
		auth:          auth,
		lead:          lead,
		checkInterval: checkInterval,
	}
}

func (s *sessionRefresher) Name() string { return "session_refresher" }

func (s *sessionRefresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.refreshIfNeeded(ctx)
		}
	}
}

func (s *sessionRefresher) refreshIfNeeded(ctx context.Context) {
	if !s.auth.IsAuthenticated() {
		return
	}

	exp, err := store.TokenExpiry(s.auth.Token())
	if err != nil {
		slog.DebugContext(ctx, "token expiry unreadable, skipping refresh", logger.Err(err))
		return
	}

	if time.Until(exp) > s.lead {
		return
	}

	if err := s.auth.Refresh(ctx); err != nil {
		slog.WarnContext(ctx, "refreshing session token", logger.Err(err))
		return
	}
	slog.DebugContext(ctx, "session token refreshed")
}
