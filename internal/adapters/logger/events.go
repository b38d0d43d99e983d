package logger

import (
	"log/slog"

	"go.trai.ch/resolvd/internal/core/domain"
)

// Emit logs a cache or scheduler event. Failures are warnings and rebuild summaries are
// info; everything else is debug output.
func (l *Logger) Emit(event domain.Event) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	attrs := make([]any, 0, 8)
	if event.Path != "" {
		attrs = append(attrs, slog.String("path", event.Path))
	}
	if event.Key != "" {
		attrs = append(attrs, slog.String("key", event.Key))
	}
	if event.Count > 0 {
		attrs = append(attrs, slog.Int("count", event.Count))
	}
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}

	switch event.Kind {
	case domain.EventWatchFailed, domain.EventManifestMalformed:
		l.logger.Warn(event.Kind.String(), attrs...)
	case domain.EventProjectRebuilt:
		l.logger.Info(event.Kind.String(), attrs...)
	default:
		l.logger.Debug(event.Kind.String(), attrs...)
	}
}
