// Package logger provides structured logging for pipes and pipex using
// zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Library code never
// configures logging itself; it asks the registry for a component logger
// and callers decide the level and format once at startup.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("pipex")
//	log.Debug("stage started", logger.Fields(logger.FieldStage, "expand"))
package logger
