package logger

import (
	"fmt"
	"log"
	"os"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO ",
	WARN:  "WARN ",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

type Logger struct {
	level  Level
	logger *log.Logger
}

// Global logger instance
var defaultLogger *Logger

func init() {
	defaultLogger = New(INFO)
}

// New creates a new logger with the specified level
func New(level Level) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetLevel sets the global logger level
func SetLevel(level Level) {
	defaultLogger.level = level
}

// shouldLog checks if a message at this level should be logged
func (l *Logger) shouldLog(level Level) bool {
	return level >= l.level
}

// format creates a formatted message with level prefix
func (l *Logger) format(level Level, msg string) string {
	return fmt.Sprintf("[%s] %s", levelNames[level], msg)
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	if defaultLogger.shouldLog(DEBUG) {
		defaultLogger.logger.Println(defaultLogger.format(DEBUG, fmt.Sprintf(msg, args...)))
	}
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	if defaultLogger.shouldLog(INFO) {
		defaultLogger.logger.Println(defaultLogger.format(INFO, fmt.Sprintf(msg, args...)))
	}
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	if defaultLogger.shouldLog(WARN) {
		defaultLogger.logger.Println(defaultLogger.format(WARN, fmt.Sprintf(msg, args...)))
	}
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	if defaultLogger.shouldLog(ERROR) {
		defaultLogger.logger.Println(defaultLogger.format(ERROR, fmt.Sprintf(msg, args...)))
	}
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...interface{}) {
	defaultLogger.logger.Fatalln(defaultLogger.format(FATAL, fmt.Sprintf(msg, args...)))
}
