package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	auditLogPathRequiredMessageConstant  = "audit log path is required"
	auditLogOpenErrorTemplateConstant    = "failed to open audit log %s: %w"
	auditTimeLayoutConstant              = "2006-01-02 15:04:05"
	auditTimeKeyConstant                 = "time"
	auditMessageKeyConstant              = "message"
	auditConsoleSeparatorConstant        = " - "
)

// ErrAuditLogPathRequired indicates that an audit logger was requested without a destination.
var ErrAuditLogPathRequired = errors.New(auditLogPathRequiredMessageConstant)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct {
	output io.Writer
}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var logFormatEncoderMapping = map[LogFormat]func(zapcore.EncoderConfig) zapcore.Encoder{
	LogFormatStructured: zapcore.NewJSONEncoder,
	LogFormatConsole:    zapcore.NewConsoleEncoder,
}

// NewLoggerFactory constructs a logger factory writing diagnostics to standard error.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// NewLoggerFactoryWithOutput constructs a logger factory writing diagnostics to output.
func NewLoggerFactoryWithOutput(output io.Writer) *LoggerFactory {
	return &LoggerFactory{output: output}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	newEncoder, formatExists := logFormatEncoderMapping[requestedLogFormat]
	if !formatExists {
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	var writeSyncer zapcore.WriteSyncer
	if factory.output != nil {
		writeSyncer = zapcore.AddSync(factory.output)
	} else {
		writeSyncer = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(newEncoder(zap.NewProductionEncoderConfig()), writeSyncer, zap.NewAtomicLevelAt(zapLogLevel))
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(writeSyncer)), nil
}

// CreateAuditLogger produces an append-only logger writing "timestamp - message" lines to auditLogPath.
// The returned function closes the underlying file.
func (factory *LoggerFactory) CreateAuditLogger(auditLogPath string) (*zap.Logger, func(), error) {
	trimmedAuditLogPath := strings.TrimSpace(auditLogPath)
	if len(trimmedAuditLogPath) == 0 {
		return nil, nil, ErrAuditLogPathRequired
	}

	writeSyncer, closeFunction, openError := zap.Open(trimmedAuditLogPath)
	if openError != nil {
		return nil, nil, fmt.Errorf(auditLogOpenErrorTemplateConstant, trimmedAuditLogPath, openError)
	}

	encoderConfiguration := zapcore.EncoderConfig{
		TimeKey:          auditTimeKeyConstant,
		MessageKey:       auditMessageKeyConstant,
		EncodeTime:       zapcore.TimeEncoderOfLayout(auditTimeLayoutConstant),
		ConsoleSeparator: auditConsoleSeparatorConstant,
		LineEnding:       zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfiguration), writeSyncer, zapcore.InfoLevel)
	return zap.New(core), closeFunction, nil
}
