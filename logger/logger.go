// Package logger wraps zap for structured logging.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log     *zap.Logger
	once    sync.Once
	mu      sync.Mutex
	logFile = ""                                  // No file output unless set
	level   = zap.NewAtomicLevelAt(zap.InfoLevel) // Adjustable at runtime
)

// SetLogPath sets the JSON log file. It must be called before the logger is
// initialized; an empty path disables file logging.
func SetLogPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	logFile = path
}

// SetLevel changes the minimum level of the logger, also after init.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// InitLogger initializes the Zap logger with structured logging.
func InitLogger() {
	once.Do(func() {
		mu.Lock()
		path := logFile
		mu.Unlock()

		// Configure console logging. Stdout is reserved for command output.
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores := []zapcore.Core{
			zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), level),
		}

		// Configure file logging
		if path != "" {
			if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
				fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
				cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(file), level))
			}
		}

		// Combine both outputs (console + file)
		core := zapcore.NewTee(cores...)

		// Initialize global logger
		log = zap.New(core, zap.AddCaller())
	})
}

// GetLogger provides access to the initialized logger.
func GetLogger() *zap.Logger {
	InitLogger()
	return log
}

// Sync ensures buffered logs are written before the application exits.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

// ResetLogger drops the global logger so the next call re-initializes it.
// It is meant for tests.
func ResetLogger() {
	Sync()
	log = nil
	once = sync.Once{}
	level.SetLevel(zap.InfoLevel)
}
