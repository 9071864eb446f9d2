package logger

import (
	"io"
	"log/slog"
	"strings"
)

// ValidLogLevels lists the accepted values for MYSQL_LOG_LEVEL.
// They cover the full MCP logging level set.
var ValidLogLevels = []string{"debug", "info", "notice", "warn", "warning", "error", "critical", "alert", "emergency"}

// ValidLogFormats lists the accepted values for MYSQL_LOG_FORMAT.
var ValidLogFormats = []string{"text", "json"}

// MCP defines logging levels beyond the four slog ships with. The numeric
// values slot them into slog's ordering.
const (
	LevelNotice    = slog.Level(2)
	LevelCritical  = slog.Level(10)
	LevelAlert     = slog.Level(12)
	LevelEmergency = slog.Level(16)
)

var levelByName = map[string]slog.Level{
	"debug":     slog.LevelDebug,
	"info":      slog.LevelInfo,
	"notice":    LevelNotice,
	"warn":      slog.LevelWarn,
	"warning":   slog.LevelWarn,
	"error":     slog.LevelError,
	"critical":  LevelCritical,
	"alert":     LevelAlert,
	"emergency": LevelEmergency,
}

var nameByLevel = map[slog.Level]string{
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	LevelNotice:     "NOTICE",
	slog.LevelWarn:  "WARN",
	slog.LevelError: "ERROR",
	LevelCritical:   "CRITICAL",
	LevelAlert:      "ALERT",
	LevelEmergency:  "EMERGENCY",
}

// Service holds the logger and its dynamic level controller.
// All output goes to the writer passed to New; in stdio transport mode that
// must be stderr, since stdout carries the MCP protocol stream.
type Service struct {
	*slog.Logger
	level *slog.LevelVar
}

// New creates a new logging service writing to the given writer.
func New(level, format string, writer io.Writer) *Service {
	levelVar := &slog.LevelVar{}
	levelVar.Set(parseLevel(level))

	opts := &slog.HandlerOptions{
		Level:       levelVar,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	return &Service{
		Logger: slog.New(handler),
		level:  levelVar,
	}
}

// SetLevel dynamically changes the logging level. Unknown values fall back
// to info, matching parseLevel.
func (s *Service) SetLevel(level string) {
	s.level.Set(parseLevel(level))
}

func parseLevel(level string) slog.Level {
	if l, ok := levelByName[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// replaceAttr renames the custom levels so records don't print as e.g.
// "INFO+2" or "ERROR+4".
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if name, ok := nameByLevel[a.Value.Any().(slog.Level)]; ok {
		a.Value = slog.StringValue(name)
	}
	return a
}
