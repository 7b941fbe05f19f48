// Package logger provides structured logging for jsonkit using zerolog.
//
// It supports JSON and console output, per-logger levels, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "jsonfetch").WithComponent("jsonclient")
//	log.Debug("request sent", logger.Fields("method", "GET", "status", 200))
package logger
