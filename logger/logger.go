// Package logger builds the zap logger and carries a request scoped copy
// through the gin context.
package logger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ginKey = "logger"

type Config struct {
	Level       string
	Environment string
	ServiceName string
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitLogger builds a JSON logger for production and a console logger otherwise.
func InitLogger(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	fields := zap.Fields(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	)

	if cfg.Environment == "production" {
		prodConfig := zap.NewProductionConfig()
		prodConfig.Level = level
		prodConfig.EncoderConfig.TimeKey = "timestamp"
		prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return prodConfig.Build(fields)
	}

	devConfig := zap.NewDevelopmentConfig()
	devConfig.Level = level
	devConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return devConfig.Build(fields)
}

// Set stores the request logger on c.
func Set(c *gin.Context, log *zap.Logger) {
	c.Set(ginKey, log)
}

// FromGin returns the request logger, or the global one outside a request.
func FromGin(c *gin.Context) *zap.Logger {
	if log, ok := c.Get(ginKey); ok {
		if l, ok := log.(*zap.Logger); ok {
			return l
		}
	}
	return zap.L()
}
