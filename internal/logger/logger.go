package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger. Production emits JSON; every other
// environment gets the colored console encoder at debug level.
func New(env string) (*zap.Logger, error) {
	return newConfig(env).Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", "sharpshop"), zap.String("env", env)),
	)
}

func newConfig(env string) zap.Config {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.MessageKey = "message"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	// containers collect stdout
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config
}

// Must is New for process start-up, falling back to a production logger
func Must(env string) *zap.Logger {
	log, err := New(env)
	if err != nil {
		log = zap.Must(zap.NewProduction())
		log.Warn("Falling back to default logger", zap.Error(err))
	}
	return log
}
