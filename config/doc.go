// Package config loads service configuration from a YAML file, an optional
// .env file and environment variables.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.Load("jsonfetch", &cfg, config.WithConfigFile("config.yml"))
//
// Environment variables override file values. Keys are derived from the
// mapstructure tags of cfg, prefixed with the upper-cased service name:
// http.base_url is read from JSONFETCH_HTTP_BASE_URL.
//
// After unmarshalling, Load calls ApplyDefaults and Validate on cfg when it
// implements them.
package config
