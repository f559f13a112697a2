package shared

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type AppLogger struct {
	Logger      *otelzap.Logger
	serviceName string
}

func NewAppLogger(serviceName string) (*AppLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	// otelzap attaches trace_id/span_id from the request context
	otelLogger := otelzap.New(zapLogger)

	return &AppLogger{
		Logger:      otelLogger,
		serviceName: serviceName,
	}, nil
}

func (l *AppLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *AppLogger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("service", l.serviceName))
	l.Logger.Ctx(ctx).Info(msg, fields...)
}

func (l *AppLogger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("service", l.serviceName))
	l.Logger.Ctx(ctx).Error(msg, fields...)
}
