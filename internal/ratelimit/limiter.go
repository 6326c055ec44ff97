// Package ratelimit paces calls to the upstream catalog per call class.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Class names a category of upstream call with its own budget.
type Class string

const (
	ClassCatalog    Class = "catalog"
	ClassEnrichment Class = "enrichment"
)

// Budget allows MaxCalls calls of a class per Timespan.
type Budget struct {
	Timespan time.Duration
	MaxCalls int
}

// Interval is the fixed spacing enforced between two calls of the class.
func (b Budget) Interval() time.Duration {
	return b.Timespan / time.Duration(b.MaxCalls)
}

// Limiter holds one token bucket per class.
type Limiter struct {
	limiters map[Class]*rate.Limiter
}

// New builds a limiter from per-class budgets. Each bucket has burst 1 and
// starts empty, so every Wait pays the full interval measured from the
// previous one.
func New(budgets map[Class]Budget) (*Limiter, error) {
	l := &Limiter{limiters: make(map[Class]*rate.Limiter, len(budgets))}
	for class, b := range budgets {
		if b.Timespan <= 0 || b.MaxCalls <= 0 {
			return nil, fmt.Errorf("rate budget for %s: timespan and max calls must be positive", class)
		}
		lim := rate.NewLimiter(rate.Every(b.Interval()), 1)
		lim.Allow()
		l.limiters[class] = lim
	}
	return l, nil
}

// Wait blocks until the next call of class is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, class Class) error {
	lim, ok := l.limiters[class]
	if !ok {
		return fmt.Errorf("unknown call class %q", class)
	}
	return lim.Wait(ctx)
}
