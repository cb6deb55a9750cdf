package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/pagestate/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const eventField = "event"

// TraceSink implements ports.TraceSink using one Redis stream per machine.
type TraceSink struct {
	client *backend.Client
	prefix string
	maxLen int64
}

// Option configures the TraceSink.
type Option func(*TraceSink)

// WithPrefix sets the key prefix for streams.
func WithPrefix(prefix string) Option {
	return func(s *TraceSink) {
		s.prefix = prefix
	}
}

// WithMaxLen caps each stream. Trimming is approximate, so Redis may keep a
// few extra entries until a whole node can go. Zero keeps everything.
func WithMaxLen(n int64) Option {
	return func(s *TraceSink) {
		s.maxLen = n
	}
}

// New creates a new Redis sink with options.
func New(address, password string, db int, opts ...Option) *TraceSink {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis sink from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *TraceSink {
	sink := &TraceSink{
		client: client,
		prefix: "pagestate:trace:",
		maxLen: 1000,
	}

	for _, opt := range opts {
		opt(sink)
	}

	return sink
}

func (s *TraceSink) key(machineID string) string {
	return s.prefix + machineID
}

func (s *TraceSink) indexKey() string {
	return s.prefix + "index"
}

// Emit appends the event to the machine's stream.
func (s *TraceSink) Emit(ctx context.Context, event domain.TraceEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal trace event: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.XAdd(ctx, &backend.XAddArgs{
		Stream: s.key(event.MachineID),
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{eventField: data},
	})
	pipe.SAdd(ctx, s.indexKey(), event.MachineID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append trace event to redis: %w", err)
	}
	return nil
}

// Recent reads the latest events back from the stream.
func (s *TraceSink) Recent(ctx context.Context, machineID string, limit int) ([]domain.TraceEvent, error) {
	var (
		msgs []backend.XMessage
		err  error
	)
	if limit > 0 {
		msgs, err = s.client.XRevRangeN(ctx, s.key(machineID), "+", "-", int64(limit)).Result()
	} else {
		msgs, err = s.client.XRevRange(ctx, s.key(machineID), "+", "-").Result()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read trace from redis: %w", err)
	}
	if len(msgs) == 0 {
		return nil, domain.ErrTraceNotFound
	}

	events := make([]domain.TraceEvent, len(msgs))
	for i, msg := range msgs {
		raw, ok := msg.Values[eventField].(string)
		if !ok {
			return nil, fmt.Errorf("trace entry %s has no %q field", msg.ID, eventField)
		}
		var e domain.TraceEvent
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trace entry %s: %w", msg.ID, err)
		}
		// XREVRANGE is newest first.
		events[len(msgs)-1-i] = e
	}
	return events, nil
}

// Machines returns the IDs of machines with recorded events.
func (s *TraceSink) Machines(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list traced machines: %w", err)
	}
	return ids, nil
}

// Close releases the client.
func (s *TraceSink) Close() error {
	return s.client.Close()
}
