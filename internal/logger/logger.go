// Package logger настраивает zap-логгер бота.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New создаёт логгер, который пишет JSON в stdout начиная с уровня level
// и дописывает ошибки отдельными строками с меткой времени в файл errorLogPath.
// Пустой errorLogPath отключает файловый журнал ошибок.
func New(level, errorLogPath string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	stdoutCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stdout),
		lvl,
	)

	if errorLogPath == "" {
		return zap.New(stdoutCore), func() {}, nil
	}

	sink, closeSink, err := zap.Open(errorLogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open error log: %w", err)
	}

	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(errorLogEncoderConfig()),
		sink,
		zapcore.ErrorLevel,
	)

	return zap.New(zapcore.NewTee(stdoutCore, fileCore)), closeSink, nil
}

func errorLogEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	return cfg
}
