// Package notify delivers user-facing notifications. The only shipping
// transport logs deliveries; push/email gateways plug in behind the
// same port.
package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes every delivery to the structured log. It stands in
// for a real gateway in local and test environments.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Send(ctx context.Context, to, template string, data any) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification sent",
		slog.String("to", to),
		slog.String("template", template),
		slog.Any("data", data),
	)
	return nil
}
