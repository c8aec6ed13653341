// Package config loads configuration structs from environment variables
// using `env` struct tags, with optional .env file support for local
// development.
//
// Unlike a server-side loader there is no per-type cache: a client process
// loads each config exactly once at startup, so caching would only hide
// stale values in tests.
//
// Example:
//
//	type GatewayConfig struct {
//		PublicURL string        `env:"KRATOS_PUBLIC_URL,required"`
//		Timeout   time.Duration `env:"KRATOS_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg GatewayConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
package config
