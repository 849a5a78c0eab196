package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vigilant-console/config"
	"vigilant-console/core/gateway"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"

	"github.com/robfig/cron/v3"
)

// Poller refreshes each live session's unread count on a fixed cadence.
// Notifications stay pull-only; this is the console's substitute for push.
type Poller struct {
	cfg      config.SchedulerConfig
	svc      *Service
	sessions store.SessionStore
	logger   *utils.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
	counts  map[string]int
}

func NewPoller(cfg config.SchedulerConfig, svc *Service, sessions store.SessionStore, logger *utils.Logger) *Poller {
	return &Poller{
		cfg:      cfg,
		svc:      svc,
		sessions: sessions,
		logger:   logger,
		counts:   make(map[string]int),
	}
}

// UnreadCount returns the last polled unread count for a session. Zero before
// the first poll completes.
func (p *Poller) UnreadCount(sessionID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[sessionID]
}

// RefreshOnce polls every live session's unread notifications and records the
// counts. Expired sessions just drop out of the map.
func (p *Poller) RefreshOnce(ctx context.Context) error {
	recs, err := p.sessions.ListSessions(ctx)
	if err != nil {
		return err
	}
	counts := make(map[string]int, len(recs))
	for i := range recs {
		rec := &recs[i]
		unread, err := p.svc.Unread(ctx, rec)
		if err != nil {
			if errors.Is(err, gateway.ErrSessionExpired) {
				continue
			}
			if p.logger != nil {
				p.logger.Errorf("notification poll for %s: %v", rec.Email, err)
			}
			continue
		}
		counts[rec.ID] = len(unread)
	}
	p.mu.Lock()
	p.counts = counts
	p.mu.Unlock()
	return nil
}

func (p *Poller) StartWithContext(ctx context.Context) {
	if p == nil || p.svc == nil || !p.cfg.Enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	minutes := p.cfg.NotificationPollMinutes
	if minutes <= 0 {
		minutes = 5
	}
	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %dm", minutes), func() {
		if err := p.RefreshOnce(ctx); err != nil && p.logger != nil {
			p.logger.Errorf("notification poll: %v", err)
		}
	})
	if err != nil {
		if p.logger != nil {
			p.logger.Errorf("notification poll schedule: %v", err)
		}
		return
	}
	c.Start()
	p.cron = c
	p.running = true
}

func (p *Poller) StopWithContext(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.running = false
	p.mu.Unlock()
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
