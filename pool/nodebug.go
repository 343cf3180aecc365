//go:build !debug

package pool

import "go.uber.org/zap"

func defaultLogger() *zap.Logger { return zap.NewNop() }
