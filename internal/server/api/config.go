package api

// ServerConfig represents the panel API server configuration.
type ServerConfig struct {
	Addr string `help:"Panel API listen address" default:"127.0.0.1:3250" env:"CAMPANEL_API_ADDR"`
}
