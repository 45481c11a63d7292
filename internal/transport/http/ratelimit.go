package http

import (
	"math"

	"golang.org/x/time/rate"
)

// frameLimiter bounds inbound frames on a single connection. A nil limiter
// allows everything.
type frameLimiter struct {
	lim *rate.Limiter
}

func newFrameLimiter(perSecond float64) *frameLimiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(math.Ceil(perSecond))
	return &frameLimiter{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (f *frameLimiter) allow() bool {
	if f == nil {
		return true
	}
	return f.lim.Allow()
}
