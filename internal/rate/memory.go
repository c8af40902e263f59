package rate

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es el equivalente in-process de RedisLimiter.
// Cada ventana es una clave en go-cache que expira sola.
type MemoryLimiter struct {
	c      *gocache.Cache
	Max    int64
	Window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, 2*window),
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now().UTC()
	winStart := now.Truncate(l.Window)
	k := key + ":" + strconv.FormatInt(winStart.Unix(), 10)

	// Add falla si ya existe; en ese caso incrementamos.
	hits := int64(1)
	if err := l.c.Add(k, hits, l.Window); err != nil {
		n, err := l.c.IncrementInt64(k, 1)
		if err != nil {
			// expiró entre Add e Increment: arrancamos de nuevo
			l.c.Set(k, hits, l.Window)
		} else {
			hits = n
		}
	}
	return decide(hits, l.Max, winStart.Add(l.Window).Sub(now), l.Window), nil
}
