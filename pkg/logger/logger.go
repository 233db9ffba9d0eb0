package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/teachmate/pkg/config"
)

// New builds the application logger. Output goes to cfg.Log.File so log lines
// do not interleave with the interactive prompt; "-" sends them to stderr.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Log.Format {
	case "console":
		zapCfg.Encoding = "console"
	default:
		zapCfg.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	switch cfg.Log.File {
	case "", "-":
		zapCfg.OutputPaths = []string{"stderr"}
	default:
		zapCfg.OutputPaths = []string{cfg.Log.File}
	}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}
