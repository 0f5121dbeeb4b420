package simplelogger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogFile names the file New appends to.
const EnvLogFile = "LINEDIFF_LOG_FILE"

// New returns a debug-level logger that appends JSON lines to the file specified by the LINEDIFF_LOG_FILE environment variable, and a func that flushes and closes
// it.
//
// If LINEDIFF_LOG_FILE is unset/empty or the path can't be opened as a file, the logger is a no-op.
func New() (*zap.Logger, func()) {
	path := os.Getenv(EnvLogFile)
	if path == "" {
		return zap.NewNop(), func() {}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zap.NewNop(), func() {}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(f), zapcore.DebugLevel)
	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}
}
