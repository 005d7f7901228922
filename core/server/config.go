package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Profile specifies the source export profile (tekla, ifc).
	Profile string `mapstructure:"profile" default:"tekla"`
	// Scope is the synchronization scope (project identifier) served by this instance.
	Scope string `mapstructure:"scope" default:"default"`
}

const (
	ProfileTekla = "tekla"
	ProfileIFC   = "ifc"
)

// IsValidProfile checks if the configured source profile is valid.
func (c Config) IsValidProfile() bool {
	switch c.Profile {
	case ProfileTekla, ProfileIFC:
		return true
	default:
		return false
	}
}
