package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// DefaultServiceName is used for service_name when SERVICE_NAME is not set.
const DefaultServiceName = "blog-api"

// Logger 는 패키지 전역에서 쓰는 최소 로깅 인터페이스다.
// *slog.Logger 가 그대로 만족한다.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields are top-level keys added to a single JSON log line.
type Fields map[string]any

// Log defaults to info level so packages can log before Init runs.
var Log Logger = NewLogger("info")

// Init swaps the global logger for one at the given level ("" means info).
func Init(level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	Log = NewLogger(level)
}

// NewLogger builds a gookit/slog console logger emitting one JSON object per line
// with datetime, level and message plus any Fields.
func NewLogger(level string) Logger {
	threshold := slog.LevelByName(level)
	enabled := make(slog.Levels, 0, len(slog.AllLevels))
	for _, lv := range slog.AllLevels {
		if lv <= threshold {
			enabled = append(enabled, lv)
		}
	}

	h := handler.NewConsoleHandler(enabled)
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{slog.FieldKeyDatetime, slog.FieldKeyLevel, slog.FieldKeyMessage}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	}))
	return slog.NewWithHandlers(h)
}

func withServiceName(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["service_name"]; ok {
		return fields
	}
	name := os.Getenv("SERVICE_NAME")
	if name == "" {
		name = DefaultServiceName
	}
	fields["service_name"] = name
	return fields
}

// logWithFields writes msg with fields when the global logger is gookit's,
// and falls back to a plain message for any other Logger.
func logWithFields(level slog.Level, msg string, fields Fields) {
	fields = withServiceName(fields)
	lg, ok := Log.(*slog.Logger)
	if !ok {
		switch level {
		case slog.ErrorLevel:
			Log.Error(msg)
		case slog.WarnLevel:
			Log.Warn(msg)
		default:
			Log.Info(msg)
		}
		return
	}
	lg.WithFields(slog.M(fields)).Log(level, msg)
}

func InfoWithFields(msg string, fields Fields)  { logWithFields(slog.InfoLevel, msg, fields) }
func WarnWithFields(msg string, fields Fields)  { logWithFields(slog.WarnLevel, msg, fields) }
func ErrorWithFields(msg string, fields Fields) { logWithFields(slog.ErrorLevel, msg, fields) }
