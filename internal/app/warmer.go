package service

import (
	"context"
	"time"

	"github.com/bishnt/portfolio/pkg/logger"
)

const minWarmInterval = time.Minute

// RunWarmer keeps the default user's calendar cached by resolving it once
// at startup and again shortly before each cache TTL lapses. It blocks
// until ctx is canceled, so callers run it in a goroutine.
func (s *Service) RunWarmer(ctx context.Context) {
	interval := s.cacheTTL - minWarmInterval
	if interval < minWarmInterval {
		interval = minWarmInterval
	}

	s.warm(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.warm(ctx)
		}
	}
}

// warm resolves the default user's calendar, refreshing the cache entry so
// page loads never pay the upstream fetch. A fresh resolve replaces any
// cached entry, including short-lived mock results.
func (s *Service) warm(ctx context.Context) {
	s.cache.Delete(s.defaultUsername)
	res, err := s.Contributions(ctx, s.defaultUsername)
	if err != nil {
		s.logger.Warn(ctx, "cache warm failed", logger.Error(err))
		return
	}
	s.logger.Debug(ctx, "cache warmed",
		logger.String("username", s.defaultUsername),
		logger.String("source", res.Source),
		logger.Int("total", res.Total))
}
