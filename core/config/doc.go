// Package config provides configuration management for the calendar agent.
//
// Settings come from environment variables, optionally seeded from a .env
// file, with defaults declared on the struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP port, API key and body limit
//   - Log: logging level and format
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and the feed bucket
//   - Rules: timezone, check-in and check-out times, buffer padding
//   - Calendar: store driver, calendar names, sweep windows
//   - Feed: ICS feed schedule, object name and horizon
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Calendar.Blocks)
package config
