package kratos

import "time"

// Config holds Kratos endpoint configuration. The public URL serves the
// self-service flows; the admin URL is only needed for the registration
// rollback (identity delete).
type Config struct {
	PublicURL string        `env:"KRATOS_PUBLIC_URL,required"`
	AdminURL  string        `env:"KRATOS_ADMIN_URL,required"`
	Timeout   time.Duration `env:"KRATOS_TIMEOUT" envDefault:"30s"`
}
