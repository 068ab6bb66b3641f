package audit

import (
	"context"
	"log/slog"
	"sync"
)

// LogSink writes events as structured log records.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Write(ctx context.Context, e Event) error {
	args := []any{
		"action", string(e.Action),
		"category", string(e.Category),
		"identity_id", e.IdentityID.String(),
		"timestamp", e.Timestamp,
	}
	for _, kv := range [][2]string{
		{"role", string(e.Role)},
		{"actor_id", e.ActorID},
		{"subject", e.Subject},
		{"decision", e.Decision},
		{"reason", e.Reason},
		{"device", e.Device},
		{"device_fingerprint", e.DeviceFingerprint},
		{"client_ip", e.ClientIP},
		{"request_id", e.RequestID},
	} {
		if kv[1] != "" {
			args = append(args, kv[0], kv[1])
		}
	}
	s.logger.InfoContext(ctx, "audit", args...)
	return nil
}

// MemorySink keeps events in memory. Used by tests and local runs.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

// Events returns a copy of everything written so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// MultiSink writes to every sink and returns the first error.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, e Event) error {
	var first error
	for _, s := range m {
		if err := s.Write(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
