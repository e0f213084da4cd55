package logger_adapter

import (
	"log/slog"
	"rental-dashboard/internal/core/port"
	"sort"
	"strings"
)

// mergeFields возвращает новую map: base, перекрытый extra.
func mergeFields(base, extra port.Fields) port.Fields {
	merged := make(port.Fields, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// sortedKeys нужен, чтобы поля в логе всегда шли в одном порядке.
func sortedKeys(fields port.Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseLevel переводит строку из конфига в slog.Level. ok == false для неизвестных значений.
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
