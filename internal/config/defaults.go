package config

import (
	"time"

	"github.com/earlysvahn/unitsense/internal/relay"
	"github.com/earlysvahn/unitsense/internal/session"
)

const DefaultEnvFile = "api_key.env"

func Defaults() App {
	return App{
		Server: Server{
			Addr:        "127.0.0.1:8501",
			AskRate:     0.5,
			AskBurst:    5,
			SessionIdle: session.DefaultIdleTimeout,
		},
		Relay: Relay{
			Endpoint: relay.DefaultEndpoint,
			Timeout:  2 * time.Minute,
		},
		Audit: Audit{
			Backend:    "none",
			SQLitePath: AuditDBPath(),
		},
		Log: Log{
			Level: "info",
		},
	}
}
