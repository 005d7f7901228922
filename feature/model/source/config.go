package source

// Config holds configuration for the model graph API connection.
type Config struct {
	// BaseURL is the root URL of the model graph API.
	BaseURL string `mapstructure:"base_url" default:""`
	// Token is the bearer token sent with every request. Empty disables auth.
	Token string `mapstructure:"token" default:""`
	// ModelRef is the default model reference to fetch.
	ModelRef string `mapstructure:"model_ref" default:""`
	// PageSize is the node page size requested from the API.
	PageSize int `mapstructure:"page_size" default:"1000"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}
