package monitor

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levelNames = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

var currentLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var baseLogger = newLogger(os.Stderr)

func newLogger(w io.Writer) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000")
	cfg.EncodeCaller = nil
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), currentLevel)
	return zap.New(core)
}

// SetLogLevel parses and sets the global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	currentLevel.SetLevel(l)
}

// GetLogLevel returns the current global log level.
func GetLogLevel() zapcore.Level { return currentLevel.Level() }

// Logger returns the shared structured logger.
func Logger() *zap.Logger { return baseLogger }

// Sync flushes buffered log entries; call before exit.
func Sync() { _ = baseLogger.Sync() }

func logf(l zapcore.Level, format string, args ...interface{}) {
	if !currentLevel.Enabled(l) {
		return
	}
	s := baseLogger.Sugar()
	// Without args the input is a finished message; formatting it again would mangle literal '%'.
	if len(args) == 0 {
		s.Log(l, format)
		return
	}
	s.Logf(l, format, args...)
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(zapcore.DebugLevel, format, a...) }
func Infof(format string, a ...interface{})  { logf(zapcore.InfoLevel, format, a...) }
func Warnf(format string, a ...interface{})  { logf(zapcore.WarnLevel, format, a...) }
func Errorf(format string, a ...interface{}) { logf(zapcore.ErrorLevel, format, a...) }

// TimeTrack logs at debug level how long label took since start.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
