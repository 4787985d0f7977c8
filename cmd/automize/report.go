package main

import (
	"time"

	"github.com/automize/automize/internal/config"
	"github.com/getsentry/sentry-go"
)

// reporter forwards failed commands to Sentry when a DSN is configured.
type reporter struct {
	enabled bool
}

// startReporting initialises the Sentry client from the settings. An
// unreadable config or empty DSN leaves reporting disabled.
func startReporting() reporter {
	cfg, err := config.Load()
	if err != nil || cfg.SentryDSN == "" {
		return reporter{}
	}
	err = sentry.Init(sentry.ClientOptions{
		Dsn:     cfg.SentryDSN,
		Release: "automize@" + version,
	})
	return reporter{enabled: err == nil}
}

func (r reporter) capture(err error) {
	if r.enabled {
		sentry.CaptureException(err)
	}
}

func (r reporter) flush() {
	if r.enabled {
		sentry.Flush(2 * time.Second)
	}
}
