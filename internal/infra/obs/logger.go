package obs

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger. Local environments get tinted
// human-readable lines at debug level; everything else emits JSON with
// a service tag for log aggregation.
func NewLogger(env string) *slog.Logger {
	writer := os.Stdout
	if env == "dev" || env == "local" {
		return slog.New(tint.NewHandler(writer, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC3339,
			AddSource:  true,
		}))
	}
	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	})
	return slog.New(handler).With("service", "fleetrent", "env", env)
}
