package offline

import (
	"context"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/example/forum-client/internal/platform/logging"
)

// Fallback serves from a durable store until it fails once, then serves
// from memory for the rest of the process. Callers never see backend
// errors.
type Fallback struct {
	primary  Store
	memory   *Memory
	degraded atomic.Bool
	log      *zap.Logger
}

func NewFallback(primary Store, log *zap.Logger) *Fallback {
	return &Fallback{primary: primary, memory: NewMemory(), log: logging.OrNop(log)}
}

// Degraded reports whether the durable backend has been abandoned.
func (f *Fallback) Degraded() bool { return f.degraded.Load() }

func (f *Fallback) fail(op string, err error) {
	if f.degraded.CompareAndSwap(false, true) {
		f.log.Warn("offline store unavailable, continuing in memory",
			zap.String("op", op), zap.Error(err))
	}
}

func (f *Fallback) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	if !f.degraded.Load() {
		v, ok, err := f.primary.Get(ctx, ns, key)
		if err == nil {
			return v, ok, nil
		}
		f.fail("get", err)
	}
	return f.memory.Get(ctx, ns, key)
}

func (f *Fallback) Set(ctx context.Context, ns, key string, value []byte) error {
	if !f.degraded.Load() {
		err := f.primary.Set(ctx, ns, key, value)
		if err == nil {
			return nil
		}
		f.fail("set", err)
	}
	return f.memory.Set(ctx, ns, key, value)
}

func (f *Fallback) Delete(ctx context.Context, ns, key string) error {
	if !f.degraded.Load() {
		err := f.primary.Delete(ctx, ns, key)
		if err == nil {
			return nil
		}
		f.fail("delete", err)
	}
	return f.memory.Delete(ctx, ns, key)
}

// Close releases the durable backend, if it holds resources.
func (f *Fallback) Close() error {
	if c, ok := f.primary.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
