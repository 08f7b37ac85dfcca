package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/docvault"
	"golang.org/x/time/rate"
)

var _ docvault.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps one token bucket per host, so sources served from
// different hosts never wait on each other. A non-positive rate disables
// limiting.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second to each host, without bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.limiter(domain).Wait(ctx)
}

func (d *DomainLimiter) limiter(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[domain]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = l
	}
	return l
}
