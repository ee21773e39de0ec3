package config

import (
	"net"

	"github.com/typingthrower/overlay/internal/validate"
)

// Settings is a typed snapshot of the recognised keys.
type Settings struct {
	DatabaseURL      string `prop:"jdbc.url" validate:"omitempty,jdbcurl"`
	DatabaseUser     string `prop:"jdbc.user"`
	DatabasePassword string `prop:"jdbc.password"`
	DatabaseDriver   string `prop:"jdbc.drivers"`
	DatabaseCharset  string `prop:"characterEncoding" validate:"omitempty,printascii"`
	ServerAddress    string `prop:"server.addr" validate:"omitempty,hostname_rfc1123|ip"`
	ServerPort       string `prop:"server.port" validate:"omitempty,port"`
}

// Settings returns the current values of the recognised keys.
func (s *Store) Settings() Settings {
	return Settings{
		DatabaseURL:      s.Property(DatabaseURL),
		DatabaseUser:     s.Property(DatabaseUser),
		DatabasePassword: s.Property(DatabasePassword),
		DatabaseDriver:   s.Property(DatabaseDriver),
		DatabaseCharset:  s.Property(DatabaseCharset),
		ServerAddress:    s.Property(ServerAddress),
		ServerPort:       s.Property(ServerPort),
	}
}

// Validate checks the values that have a known shape. Empty values pass.
func (st Settings) Validate() error {
	return validate.Struct(st)
}

// ServerEndpoint joins the game server address and port, or returns "" if
// either is unset.
func (st Settings) ServerEndpoint() string {
	if st.ServerAddress == "" || st.ServerPort == "" {
		return ""
	}
	return net.JoinHostPort(st.ServerAddress, st.ServerPort)
}
