package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/zfogg/picfeed/pkg/config"
)

var logger *log.Logger
var logFile io.Closer

// Init opens the log file from config; verbose forces debug level
func Init(verbose bool) {
	level, err := log.ParseLevel(strings.ToLower(config.GetString("log.level")))
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}

	var w io.Writer = os.Stderr
	if path := config.GetString("log.file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err == nil {
			w = f
			logFile = f
		}
	}

	InitWriter(w, level)
}

// InitWriter logs to w at level
func InitWriter(w io.Writer, level log.Level) {
	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "picfeed",
	})
	logger.SetLevel(level)
}

// Close closes the log file, if one was opened
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}
