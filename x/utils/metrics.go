package utils

import (
	"time"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator counting and timing every transaction by the path
// of its message.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ safepay.Decorator = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg. Collectors
// that are already registered are reused, so that several stacks can share
// one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safepay_tx_total",
		Help: "Count of processed transactions by call, message path and result.",
	}, []string{"call", "path", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "safepay_tx_duration_seconds",
		Help:    "Time spent processing a transaction by call and message path.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"call", "path"})

	if err := reg.Register(total); err != nil {
		existing, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, errors.Wrapf(errors.ErrInput, "register tx counter: %s", err)
		}
		total = existing.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(duration); err != nil {
		existing, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, errors.Wrapf(errors.ErrInput, "register tx histogram: %s", err)
		}
		duration = existing.ExistingCollector.(*prometheus.HistogramVec)
	}
	return &Metrics{total: total, duration: duration}, nil
}

func (m *Metrics) Check(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check_tx", safepay.GetPath(tx), start, err)
	return res, err
}

func (m *Metrics) Deliver(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver_tx", safepay.GetPath(tx), start, err)
	return res, err
}

func (m *Metrics) observe(call, path string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.total.WithLabelValues(call, path, result).Inc()
	m.duration.WithLabelValues(call, path).Observe(time.Since(start).Seconds())
}
