// Package metrics provides a plugin exposing bastion counters and
// latencies to Prometheus.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xraph/bastion/plugin"
	"github.com/xraph/bastion/realm"
)

// Collector is a plugin that records login outcomes, lockouts, and
// permission-check traffic.
type Collector struct {
	logins    *prometheus.CounterVec
	lockouts  prometheus.Counter
	checks    *prometheus.CounterVec
	checkTime prometheus.Histogram
}

// New creates a collector registered with reg. Pass
// prometheus.DefaultRegisterer to use the process-global registry.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bastion",
			Name:      "logins_total",
			Help:      "Authentication attempts by outcome.",
		}, []string{"outcome"}),
		lockouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bastion",
			Name:      "lockouts_total",
			Help:      "Principals locked out after repeated failures.",
		}),
		checks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bastion",
			Name:      "permission_checks_total",
			Help:      "Permission checks by decision and cache disposition.",
		}, []string{"decision", "cache"}),
		checkTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bastion",
			Name:      "permission_check_duration_seconds",
			Help:      "Permission check latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
}

// Name implements plugin.Plugin.
func (c *Collector) Name() string { return "metrics" }

// OnAfterLogin counts the attempt by outcome.
func (c *Collector) OnAfterLogin(ctx context.Context, principal string, outcome realm.Outcome, realmName string) error {
	c.logins.WithLabelValues(string(outcome)).Inc()
	return nil
}

// OnLockoutEngaged counts a new lockout.
func (c *Collector) OnLockoutEngaged(ctx context.Context, principal string, until time.Time) error {
	c.lockouts.Inc()
	return nil
}

// OnAfterCheck counts the check and observes its latency.
func (c *Collector) OnAfterCheck(ctx context.Context, principal, query string, allowed, cached bool, took time.Duration) error {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	disposition := "miss"
	if cached {
		disposition = "hit"
	}
	c.checks.WithLabelValues(decision, disposition).Inc()
	c.checkTime.Observe(took.Seconds())
	return nil
}

var (
	_ plugin.Plugin         = (*Collector)(nil)
	_ plugin.AfterLogin     = (*Collector)(nil)
	_ plugin.LockoutEngaged = (*Collector)(nil)
	_ plugin.AfterCheck     = (*Collector)(nil)
)
