package config

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Log formatter options
const (
	formatJSON   = "json"
	formatLogfmt = "logfmt"
	formatTTY    = "tty"
)

// ConfigureLogging applies level and formatter to the standard logrus logger.
func ConfigureLogging(cfg LoggingConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	formatter, err := LogFormatter(cfg.Format)
	if err != nil {
		return err
	}

	log.SetLevel(level)
	log.SetFormatter(formatter)
	return nil
}

// LogFormatter returns the logrus formatter for the given name.
func LogFormatter(format string) (log.Formatter, error) {
	switch format {
	case formatJSON:
		return &log.JSONFormatter{}, nil
	case formatLogfmt:
		return &log.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		}, nil
	case formatTTY, "":
		return &log.TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("invalid log format %q (expected %s, %s or %s)", format, formatJSON, formatLogfmt, formatTTY)
	}
}

// GinLogrusLogger routes gin's access log through logrus.
func GinLogrusLogger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		fields := log.WithFields(log.Fields{
			"status_code":  p.StatusCode,
			"latency_time": p.Latency,
			"client_ip":    p.ClientIP,
			"req_method":   p.Method,
			"req_uri":      p.Request.RequestURI,
		})

		if p.ErrorMessage != "" {
			fields.WithError(errors.New(p.ErrorMessage)).Error("GIN")
		} else {
			fields.Info("GIN")
		}

		return ""
	})
}
