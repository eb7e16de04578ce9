// Package config loads the tracker configuration from the environment.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: optional .env
// files are read first, then the process environment is parsed into Config using
// struct tags. Nested sections (RedisConfig, S3Config) carry their own tags in the
// packages that consume them.
//
// # Usage
//
//	cfg, err := config.Load() // reads ./.env when present
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Pass explicit files to read them instead of the default .env; a missing explicit
// file is an error:
//
//	cfg, err := config.Load("/etc/subtracker.env")
//
// LoadInto parses any tagged struct with the same rules, which is handy for tools
// that only need a subset of the settings.
//
// # Error Handling
//
//   - ErrLoadingEnvFile  – an explicitly requested .env file could not be read.
//   - ErrParsingConfig   – environment values could not be parsed into the struct.
//   - ErrInvalidConfig   – parsed values failed validation (unknown backend etc.).
//   - ErrNilPointer      – nil pointer passed to LoadInto.
package config
