// Package utils loads gitmaster configuration with Viper and builds the zap loggers used for
// diagnostics and the audit log.
package utils
