// Package config provides configuration management for the catalog sync
// service.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional config file (config.yaml), and .env files.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: report HTTP server settings (port, API key)
//   - Database: MySQL connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Feed: distributor feed location and format overrides
//   - Rules: classification rule file path
//   - Pricing: tier pricing derivation (markups, department discounts)
//   - Search: index credentials and dispatch tuning
//   - Pipeline: worker count, dry-run, deactivation policy
//
// Tables that do not map onto flat environment variables (department
// discount rates, feed offset overrides) live in config.yaml.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
