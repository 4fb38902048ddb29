package analytics

import (
	"context"

	"go.uber.org/zap"
)

// Store persists consumed analytics events.
type Store interface {
	RecordCreated(ctx context.Context, event *LinkCreatedEvent) error
	RecordAccessed(ctx context.Context, event *LinkAccessedEvent) error
	RecordDeleted(ctx context.Context, event *LinkDeletedEvent) error
}

// LogStore is a Store that writes events to the structured log. It is the
// default sink until a real warehouse is attached.
type LogStore struct {
	logger *zap.Logger
}

// NewLogStore creates a log-backed event store.
func NewLogStore(logger *zap.Logger) *LogStore {
	return &LogStore{logger: logger}
}

func (s *LogStore) RecordCreated(_ context.Context, event *LinkCreatedEvent) error {
	s.logger.Info("link created",
		zap.String("code", event.Code),
		zap.String("target_url", event.TargetURL),
		zap.Bool("owned", event.Owned),
		zap.String("client_ip", event.ClientIP),
	)

	return nil
}

func (s *LogStore) RecordAccessed(_ context.Context, event *LinkAccessedEvent) error {
	s.logger.Info("link accessed",
		zap.String("code", event.Code),
		zap.Time("accessed_at", event.AccessedAt),
		zap.String("client_ip", event.ClientIP),
	)

	return nil
}

func (s *LogStore) RecordDeleted(_ context.Context, event *LinkDeletedEvent) error {
	s.logger.Info("links deleted",
		zap.String("code", event.Code),
		zap.String("reason", event.Reason),
		zap.Int("count", event.Count),
	)

	return nil
}

// Compile-time check.
var _ Store = (*LogStore)(nil)
