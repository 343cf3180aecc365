//go:build debug

package pool

import "go.uber.org/zap"

// defaultLogger returns a development logger when built with -tags debug.
func defaultLogger() *zap.Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named(Namespace)
}
