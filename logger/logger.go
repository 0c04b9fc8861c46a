package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// ANSI color codes used for console output only; file output stays plain.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelPrefixes = map[LogLevel]struct{ label, color string }{
	DEBUG: {"[DEBUG] ", colorGray},
	INFO:  {"[INFO]  ", ""},
	WARN:  {"[WARN]  ", colorYellow},
	ERROR: {"[ERROR] ", colorRed},
}

type sink struct {
	console *log.Logger
	file    *log.Logger
}

var (
	mu       sync.Mutex
	minLevel = DEBUG
	logFile  *os.File
	sinks    map[LogLevel]*sink
)

func init() {
	setup(true)
}

func setup(console bool) {
	flags := log.Ldate | log.Ltime | log.Lshortfile

	sinks = make(map[LogLevel]*sink)
	for level, p := range levelPrefixes {
		s := &sink{}
		if console {
			prefix := p.label
			if p.color != "" {
				prefix = p.color + p.label + colorReset
			}
			s.console = log.New(os.Stdout, prefix, flags)
		}
		if logFile != nil {
			s.file = log.New(logFile, p.label, flags)
		}
		sinks[level] = s
	}
}

// Init configures the logger outputs. If filename is non-empty, messages are
// also appended to that file without color codes. If console is false, only
// the file receives output.
func Init(filename string, console bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if filename != "" {
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
	}

	if logFile == nil && !console {
		return fmt.Errorf("no output destination specified")
	}

	setup(console)
	return nil
}

// SetLevel sets the minimum level; messages below it are dropped.
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// Close closes the log file if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func output(level LogLevel, msg string) {
	mu.Lock()
	defer mu.Unlock()

	if level < minLevel {
		return
	}
	s := sinks[level]
	if s.console != nil {
		s.console.Output(3, msg)
	}
	if s.file != nil {
		s.file.Output(3, msg)
	}
}

// Debug logs a debug message.
func Debug(v ...interface{}) { output(DEBUG, fmt.Sprint(v...)) }

// Debugf logs a formatted debug message.
func Debugf(format string, v ...interface{}) { output(DEBUG, fmt.Sprintf(format, v...)) }

// Info logs an info message.
func Info(v ...interface{}) { output(INFO, fmt.Sprint(v...)) }

// Infof logs a formatted info message.
func Infof(format string, v ...interface{}) { output(INFO, fmt.Sprintf(format, v...)) }

// Warn logs a warning message.
func Warn(v ...interface{}) { output(WARN, fmt.Sprint(v...)) }

// Warnf logs a formatted warning message.
func Warnf(format string, v ...interface{}) { output(WARN, fmt.Sprintf(format, v...)) }

// Error logs an error message.
func Error(v ...interface{}) { output(ERROR, fmt.Sprint(v...)) }

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) { output(ERROR, fmt.Sprintf(format, v...)) }

// Fatal logs an error message and exits the program.
func Fatal(v ...interface{}) {
	output(ERROR, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted error message and exits the program.
func Fatalf(format string, v ...interface{}) {
	output(ERROR, fmt.Sprintf(format, v...))
	os.Exit(1)
}
