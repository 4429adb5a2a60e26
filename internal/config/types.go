package config

import "time"

type Server struct {
	Addr string `toml:"addr"`
	// AskRate is the sustained number of asks per second allowed per client
	// IP. Zero disables limiting.
	AskRate     float64       `toml:"ask_rate"`
	AskBurst    int           `toml:"ask_burst"`
	SessionIdle time.Duration `toml:"session_idle"`
	// TrustedProxies are the IPs or CIDR prefixes of reverse proxies whose
	// X-Forwarded-For header identifies the client. Empty trusts none.
	TrustedProxies []string `toml:"trusted_proxies"`
}

type Relay struct {
	Endpoint string        `toml:"endpoint"`
	APIKey   string        `toml:"api_key"`
	Timeout  time.Duration `toml:"timeout"`
}

type Audit struct {
	Backend     string `toml:"backend"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
}

type Log struct {
	Level string `toml:"level"`
	Quiet bool   `toml:"quiet"`
}

type App struct {
	Server Server `toml:"server"`
	Relay  Relay  `toml:"relay"`
	Audit  Audit  `toml:"audit"`
	Log    Log    `toml:"log"`
}

// Redacted returns a copy safe to print.
func (a App) Redacted() App {
	if a.Relay.APIKey != "" {
		a.Relay.APIKey = "********"
	}
	if a.Audit.PostgresDSN != "" {
		a.Audit.PostgresDSN = "********"
	}
	return a
}
