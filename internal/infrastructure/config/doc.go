// Package config handles loading and validating the smart house API configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with environment variables (DATABASE_URL, SMARTHOUSE_*)
//   - Validation of required fields
//   - Default value handling
//
// A .env file is not read here; the entry point loads it into the process
// environment before calling Load, so overrides see its values.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Path)
package config
