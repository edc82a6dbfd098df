// Package metrics centralizes metric names emitted by the portal.
package metrics

import (
	"time"

	"github.com/brnlabs/staffdesk/internal/observability/statsd"
)

// Metric names for account and session lifecycle events.
const (
	MetricSignup        = "account.signup"
	MetricSignupFailed  = "account.signup_failed"
	MetricLogin         = "auth.login"
	MetricLoginTime     = "auth.login_time"
	MetricLoginFailed   = "auth.login_failed"
	MetricLogout        = "auth.logout"
	MetricProfileDelete = "account.delete"
)

// Emit increments a counter on the sink if one is configured.
func Emit(sink statsd.Sink, name string) {
	if sink == nil {
		return
	}
	sink.Count(name, 1)
}

// EmitTiming records a duration on the sink if one is configured.
func EmitTiming(sink statsd.Sink, name string, d time.Duration) {
	if sink == nil || d <= 0 {
		return
	}
	sink.Timing(name, d)
}
