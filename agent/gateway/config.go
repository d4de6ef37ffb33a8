package gateway

import "time"

type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" split_words:"true" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"15s"`
	Debug           bool          `envconfig:"DEBUG" default:"false"`
}
