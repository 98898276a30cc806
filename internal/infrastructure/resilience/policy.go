package resilience

import "time"

// Policy bounds how hard a Guard leans on a failing dependency.
type Policy struct {
	Attempts      int
	BackoffStart  time.Duration
	BackoffCap    time.Duration
	BackoffFactor float64

	BreakerDisabled bool
	TripMinRequests uint32
	TripRatio       float64
	CoolDown        time.Duration
	HalfOpenCalls   uint32
}

func DefaultPolicy() Policy {
	return Policy{
		Attempts:      3,
		BackoffStart:  200 * time.Millisecond,
		BackoffCap:    2 * time.Second,
		BackoffFactor: 2.0,

		TripMinRequests: 5,
		TripRatio:       0.6,
		CoolDown:        30 * time.Second,
		HalfOpenCalls:   1,
	}
}

func (p Policy) normalize() Policy {
	def := DefaultPolicy()

	if p.Attempts <= 0 {
		p.Attempts = def.Attempts
	}
	if p.BackoffStart <= 0 {
		p.BackoffStart = def.BackoffStart
	}
	if p.BackoffCap < p.BackoffStart {
		p.BackoffCap = p.BackoffStart
	}
	if p.BackoffFactor < 1.0 {
		p.BackoffFactor = def.BackoffFactor
	}
	if p.TripMinRequests == 0 {
		p.TripMinRequests = def.TripMinRequests
	}
	if p.TripRatio <= 0 || p.TripRatio > 1 {
		p.TripRatio = def.TripRatio
	}
	if p.CoolDown <= 0 {
		p.CoolDown = def.CoolDown
	}
	if p.HalfOpenCalls == 0 {
		p.HalfOpenCalls = def.HalfOpenCalls
	}
	return p
}
