package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter forwards zap log entries to a Logger, letting callers that
// already hold a *zap.Logger plug into the service's logging pipeline.
type ZapAdapter struct {
	logger *Logger
}

// NewZapAdapter creates a zapcore.Core backed by logger.
func NewZapAdapter(logger *Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger}
}

// NewZapLogger creates a *zap.Logger that forwards to logger.
func NewZapLogger(logger *Logger) *zap.Logger {
	return zap.New(NewZapAdapter(logger))
}

func zapLevel(level zapcore.Level) LogLevel {
	switch level {
	case zapcore.DebugLevel:
		return DebugLevel
	case zapcore.InfoLevel:
		return InfoLevel
	case zapcore.WarnLevel:
		return WarnLevel
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func fieldValue(field zapcore.Field) interface{} {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return field.Integer
	case zapcore.BoolType:
		return field.Integer == 1
	default:
		return field.Interface
	}
}

// Enabled implements zapcore.Core.
func (a *ZapAdapter) Enabled(level zapcore.Level) bool {
	return a.logger.shouldLog(zapLevel(level))
}

// With implements zapcore.Core.
func (a *ZapAdapter) With(fields []zapcore.Field) zapcore.Core {
	f := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		f[field.Key] = fieldValue(field)
	}
	return &ZapAdapter{logger: a.logger.WithFields(f)}
}

// Check implements zapcore.Core.
func (a *ZapAdapter) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(ent.Level) {
		return ce.AddCore(ent, a)
	}
	return ce
}

// Write implements zapcore.Core.
func (a *ZapAdapter) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	f := make(map[string]interface{}, len(fields)+1)
	f["caller"] = ent.Caller.String()
	for _, field := range fields {
		f[field.Key] = fieldValue(field)
	}

	if ent.Level == zapcore.FatalLevel {
		a.logger.Fatal(ent.Message, f)
		return nil
	}
	a.logger.log(zapLevel(ent.Level), ent.Message, f)
	return nil
}

// Sync implements zapcore.Core; the logger writes synchronously.
func (a *ZapAdapter) Sync() error {
	return nil
}
