package router

import "fmt"

// LoggerEnabled toggles output of the default logger.
var LoggerEnabled = false

// Logger is the reporting surface used by the route table builder, the
// matcher and the history backends. Reportable, non-fatal conditions such as
// duplicate route names are sent to Warn.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type defaultLogger struct {
}

func (d *defaultLogger) Debug(format string, args ...any) {
	if LoggerEnabled {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

func (d *defaultLogger) Info(format string, args ...any) {
	if LoggerEnabled {
		fmt.Printf("[INFO] "+format+"\n", args...)
	}
}

// Warn is always printed, reportable conditions should not be silent.
func (d *defaultLogger) Warn(format string, args ...any) {
	fmt.Printf("[WARN] [spa-router] "+format+"\n", args...)
}

func (d *defaultLogger) Error(format string, args ...any) {
	if len(args) == 0 {
		fmt.Printf("[ERROR] %s\n", format)
		return
	}
	switch t := args[0].(type) {
	case map[string]any:
		fmt.Printf("[ERROR] %s %+v\n", format, t)
	default:
		fmt.Printf("[ERROR] "+format+"\n", args...)
	}
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

func warn(logger Logger, condition bool, format string, args ...any) {
	if condition || logger == nil {
		return
	}
	logger.Warn(format, args...)
}
