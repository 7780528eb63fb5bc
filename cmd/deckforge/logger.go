package main

import (
	"log"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// Logger provides structured, level-filtered logging for CLI subcommands.
type Logger struct {
	verbose bool
	level   entities.LogLevel
}

var logLevelOrder = map[entities.LogLevel]int{
	entities.LogLevelDebug: 0,
	entities.LogLevelInfo:  1,
	entities.LogLevelWarn:  2,
	entities.LogLevelError: 3,
}

func newLogger(verbose bool, level entities.LogLevel) *Logger {
	return &Logger{verbose: verbose, level: level}
}

func (l *Logger) shouldLog(msgLevel entities.LogLevel) bool {
	return logLevelOrder[msgLevel] >= logLevelOrder[l.level]
}

// Debug logs a debug message; only emitted with --verbose.
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.verbose && l.shouldLog(entities.LogLevelDebug) {
		log.Printf("[DEBUG] "+msg, args...)
	}
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		log.Printf("[INFO] "+msg, args...)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		log.Printf("[WARN] "+msg, args...)
	}
}

// Error logs an error message. Errors are always emitted regardless of configured level.
func (l *Logger) Error(msg string, args ...interface{}) {
	log.Printf("[ERROR] "+msg, args...)
}
