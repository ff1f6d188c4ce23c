package application

import "expvar"

// counters exposed on /debug/vars
var counters = expvar.NewMap("accounts")

const (
	metricRegistered    = "registered"
	metricVerified      = "verified"
	metricLoginOK       = "login_ok"
	metricLoginFailed   = "login_failed"
	metricPasswordReset = "password_reset"
	metricReaped        = "reaped"
)
