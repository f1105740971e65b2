// Package summary keeps the dashboard's today snapshot warm. A background
// poller recomputes the aggregates on a fixed interval instead of every
// dashboard request hitting the sales ledger.
package summary

import (
	"context"
	"log"
	"time"

	"nosticpos/backend/internal/service"
)

type Poller struct {
	svc      *service.Service
	interval time.Duration
}

func NewPoller(svc *service.Service, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{svc: svc, interval: interval}
}

// Run refreshes the today summary until ctx is cancelled. One refresh runs
// immediately so the cache is warm before the first tick.
func (p *Poller) Run(ctx context.Context) error {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := p.svc.RefreshTodaySummary(refreshCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("[summary] refresh failed: %v", err)
	}
}
