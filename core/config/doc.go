// Package config provides configuration management for the model sync service.
//
// It utilizes Viper for loading configuration from environment variables and
// a local .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, source profile, scope)
//   - Database: MySQL connection details for the persisted record store
//   - Storage: S3/MinIO credentials and bucket settings for the snapshot archive
//   - Source: base URL, token and paging for the external model query service
//   - Sync: batch size and fan-out for the apply step
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
