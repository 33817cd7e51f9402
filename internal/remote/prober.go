package remote

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/forum-client/internal/platform/logging"
)

// Pinger is anything that can check the forum is up.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober keeps a Status current by pinging the forum: every Interval while
// it answers, and with exponential backoff while it does not.
type Prober struct {
	Pinger   Pinger
	Status   *Status
	Interval time.Duration
	Timeout  time.Duration
	Logger   *zap.Logger
}

func backoffDelay(failures int) time.Duration {
	// 1st failure -> 1s, 2nd -> 2s, 3rd -> 4s ... capped
	if failures < 1 {
		failures = 1
	}
	if failures > 7 {
		return 60 * time.Second
	}
	sec := 1 << (failures - 1)
	if sec > 60 {
		sec = 60
	}
	return time.Duration(sec) * time.Second
}

// Probe pings once and updates Status.
func (p *Prober) Probe(ctx context.Context) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := p.Pinger.Ping(pctx)
	p.Status.Set(err == nil)
	return err
}

// Run probes until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	log := logging.OrNop(p.Logger)
	interval := p.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	failures := 0
	for {
		wait := interval
		if err := p.Probe(ctx); err != nil {
			failures++
			wait = backoffDelay(failures)
			if wait > interval {
				wait = interval
			}
			log.Debug("forum probe failed", zap.Int("failures", failures), zap.Duration("retry_in", wait), zap.Error(err))
		} else {
			failures = 0
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}
