// Package config loads and validates the pipes configuration.
//
// It uses Viper to read config.yml (searched under ./cmd/<name>/ and
// ./config/), godotenv to load an optional .env file, and binds environment
// variables onto nested keys (PIPES_PIPEX_CHANNEL_CAPACITY sets
// pipex.channel_capacity when loaded WithEnvPrefix("pipes")).
//
// # Usage
//
//	cfg, err := config.Load("pipes", config.WithEnvPrefix("pipes"))
package config
