package utils

import (
	"time"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ safepay.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (Logging) Check(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx safepay.Context, start time.Time, msg string, err error, lowPrio bool) {
	logger := safepay.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)

	// An entry is emitted even for an empty message, the key values carry
	// the information.
	switch {
	case err != nil && lowPrio:
		logger.Info(msg, "err", err, "code", errors.Code(err))
	case err != nil:
		logger.Error(msg, "err", err, "code", errors.Code(err))
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
