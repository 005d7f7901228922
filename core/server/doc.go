// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and valid values for server settings,
// such as supported source export profiles.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, the source export profile
// (Tekla, IFC), and the synchronization scope served by this instance.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the model feature to select the attribute profile for decoding.
package server
