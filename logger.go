package auth

import "go.uber.org/zap"

type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger adapts a zap logger to Logger. A nil logger uses the
// process global returned by zap.L.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.L()
	}
	return zapLogger{s: l.Sugar()}
}

func (z zapLogger) Debug(msg string, args ...any) { z.s.Debugw(msg, args...) }

func (z zapLogger) Info(msg string, args ...any) { z.s.Infow(msg, args...) }

func (z zapLogger) Warn(msg string, args ...any) { z.s.Warnw(msg, args...) }

func (z zapLogger) Error(msg string, args ...any) { z.s.Errorw(msg, args...) }

// defLogger resolves lazily so zap.ReplaceGlobals calls made after
// construction are still honored.
type defLogger struct{}

func (defLogger) Debug(msg string, args ...any) { zap.S().Debugw(msg, args...) }

func (defLogger) Info(msg string, args ...any) { zap.S().Infow(msg, args...) }

func (defLogger) Warn(msg string, args ...any) { zap.S().Warnw(msg, args...) }

func (defLogger) Error(msg string, args ...any) { zap.S().Errorw(msg, args...) }

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
