package router

import (
	"fmt"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock for Logger that also records every
// formatted message by level, so tests can either set expectations or
// just inspect what was logged.
//
// Expectations are optional: when none are registered for a level the
// call is only recorded.
type MockLogger struct {
	mock.Mock

	mu       sync.Mutex
	messages map[string][]string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: make(map[string][]string),
	}
}

func (m *MockLogger) Debug(format string, args ...any) { m.record("Debug", format, args) }
func (m *MockLogger) Info(format string, args ...any)  { m.record("Info", format, args) }
func (m *MockLogger) Warn(format string, args ...any)  { m.record("Warn", format, args) }
func (m *MockLogger) Error(format string, args ...any) { m.record("Error", format, args) }

// Messages returns the formatted messages logged at level.
func (m *MockLogger) Messages(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages[level]))
	copy(out, m.messages[level])
	return out
}

// Warnings is a shortcut for Messages("Warn").
func (m *MockLogger) Warnings() []string {
	return m.Messages("Warn")
}

// HasMessage reports whether any message at level contains substr.
func (m *MockLogger) HasMessage(level, substr string) bool {
	for _, msg := range m.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func (m *MockLogger) record(level, format string, args []any) {
	m.mu.Lock()
	if m.messages == nil {
		m.messages = make(map[string][]string)
	}
	m.messages[level] = append(m.messages[level], fmt.Sprintf(format, args...))
	m.mu.Unlock()

	if m.expects(level) {
		m.MethodCalled(level, format, args)
	}
}

func (m *MockLogger) expects(method string) bool {
	for _, call := range m.ExpectedCalls {
		if call.Method == method {
			return true
		}
	}
	return false
}
