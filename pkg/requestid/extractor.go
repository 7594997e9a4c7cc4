package requestid

import (
	"context"
	"log/slog"
)

// LoggerExtractor adds the request id under "request_id".
// Pass it to logger.WithContextExtractors.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}
