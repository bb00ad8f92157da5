package v8clone

import "github.com/go-kit/kit/log"

// componentLogger returns a logger with a "component" key fixed to
// name, the way kolide-launcher's debug tooling tags its sub-loggers.
func componentLogger(l log.Logger, name string) log.Logger {
	if l == nil {
		l = log.NewNopLogger()
	}
	return log.With(l, "component", name)
}
