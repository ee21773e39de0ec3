package config

// Key names a property the game knows about.
type Key string

// Recognised property keys.
const (
	DatabaseURL      Key = "jdbc.url"
	DatabaseUser     Key = "jdbc.user"
	DatabasePassword Key = "jdbc.password"
	// DatabaseDriver uses the standard JDBC driver property name.
	DatabaseDriver Key = "jdbc.drivers"
	// DatabaseCharset sets the default MySQL character encoding.
	DatabaseCharset Key = "characterEncoding"
	ServerAddress   Key = "server.addr"
	ServerPort      Key = "server.port"
)

// DefaultName is the properties resource used when no override is given.
const DefaultName = "typingthrower.config"

// OverrideEnv names the environment variable that selects another
// properties resource. The upper-case spelling is also honoured.
const OverrideEnv = "properties"

// KnownKeys lists the recognised keys in declaration order.
func KnownKeys() []Key {
	return []Key{
		DatabaseURL,
		DatabaseUser,
		DatabasePassword,
		DatabaseDriver,
		DatabaseCharset,
		ServerAddress,
		ServerPort,
	}
}

func (k Key) String() string { return string(k) }
