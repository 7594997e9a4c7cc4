// Package config loads typed configuration structs from environment variables
// using github.com/caarlos0/env, with optional .env files read by
// github.com/joho/godotenv.
//
// Every package that needs settings exposes a Config struct with env tags;
// the application loads each one once at startup:
//
//	var authCfg auth.Config
//	config.MustLoad(&authCfg)
package config
