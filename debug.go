package router

import (
	"reflect"
	"runtime"
	"strings"
)

// funcName returns a printable name for a guard or hook, used in debug logs
// and route listings.
func funcName(fn any) string {
	if fn == nil {
		return "<nil>"
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "non-function"
	}
	if v.IsNil() {
		return "<nil>"
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "unknown"
	}

	name := strings.TrimSuffix(rf.Name(), "-fm")
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx != -1 {
		name = name[idx+1:]
	}

	if strings.HasPrefix(name, "func") || strings.Contains(name, ".func") {
		return "anonymous"
	}

	return name
}
