package auth

import (
	"context"
	"fmt"
	"sync"

	"vigilant-console/config"
	"vigilant-console/core/utils"

	"github.com/robfig/cron/v3"
)

// IdleSweeper expires idle sessions on a fixed schedule so dead sessions do
// not linger between requests.
type IdleSweeper struct {
	cfg    config.SchedulerConfig
	sm     *SessionManager
	logger *utils.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewIdleSweeper(cfg config.SchedulerConfig, sm *SessionManager, logger *utils.Logger) *IdleSweeper {
	return &IdleSweeper{cfg: cfg, sm: sm, logger: logger}
}

func (s *IdleSweeper) StartWithContext(ctx context.Context) {
	if s == nil || s.sm == nil || !s.cfg.Enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	minutes := s.cfg.IdleSweepMinutes
	if minutes <= 0 {
		minutes = 1
	}
	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %dm", minutes), func() {
		if _, err := s.sm.ExpireIdle(ctx); err != nil && s.logger != nil {
			s.logger.Errorf("idle sweep: %v", err)
		}
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Errorf("idle sweep schedule: %v", err)
		}
		return
	}
	c.Start()
	s.cron = c
	s.running = true
}

func (s *IdleSweeper) StopWithContext(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.running = false
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	done := c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
