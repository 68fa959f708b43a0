package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"apodgallery/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log file names, one per level.
const (
	InfoFile    = "info.log"
	WarningFile = "warning.log"
	ErrorFile   = "error.log"
)

// Logger provides leveled logging (info/warning/error) to files and stdout/stderr.
type Logger struct {
	sugar  *zap.SugaredLogger
	logDir string
	files  []*os.File
}

// NewLogger creates a Logger writing each level to its own file in the configured log directory.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	l := &Logger{logDir: cfg.LogDirectory}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	levels := []struct {
		file    string
		level   zapcore.Level
		console zapcore.WriteSyncer
	}{
		{InfoFile, zapcore.InfoLevel, zapcore.Lock(os.Stdout)},
		{WarningFile, zapcore.WarnLevel, zapcore.Lock(os.Stdout)},
		{ErrorFile, zapcore.ErrorLevel, zapcore.Lock(os.Stderr)},
	}

	cores := make([]zapcore.Core, 0, len(levels))
	for _, lv := range levels {
		f, err := l.openLogFile(filepath.Join(l.logDir, lv.file))
		if err != nil {
			l.Close()
			return nil, err
		}
		target := lv.level
		enabler := zap.LevelEnablerFunc(func(level zapcore.Level) bool { return level == target })
		cores = append(cores, zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(lv.console, zapcore.AddSync(f)), enabler))
	}

	l.sugar = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	return l, nil
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) openLogFile(filename string) (*os.File, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filename, err)
	}
	l.files = append(l.files, file)
	return file, nil
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// With returns a child Logger that adds key/value pairs to every entry.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(args...), logDir: l.logDir}
}

// Dir returns the directory holding the level files; empty for a nop logger.
func (l *Logger) Dir() string {
	return l.logDir
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	if l.logDir == "" {
		return nil
	}
	filePath := filepath.Join(l.logDir, filepath.Base(fileName))
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		l.Error("Error opening file: %v", err)
		return err
	}
	defer file.Close()

	l.Info("File %s has been cleared.", fileName)
	return nil
}

// Close flushes buffered entries and closes the level files.
func (l *Logger) Close() error {
	if l.sugar != nil {
		_ = l.sugar.Sync()
	}
	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}
