// Package database handles database connections for the persisted record store.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a pooled connection with conservative
// timeouts and verifies it with a ping before returning. Callers that can run
// without a store (e.g. plan-only tooling) should handle the error gracefully.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
