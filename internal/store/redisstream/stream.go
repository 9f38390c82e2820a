package redisstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const payloadField = "payload"

// MessageTransport is the stream boundary between the relay and the
// engine. The redis-backed Stream satisfies it in production; an
// InMemoryStream stands in for tests.
type MessageTransport interface {
	PublishJSON(ctx context.Context, stream string, v any) (string, error)
	// ReadJSON blocks for the next entry after lastID, decodes it into
	// dst, and returns the new offset.
	ReadJSON(ctx context.Context, stream string, lastID string, dst any) (string, error)
}

// Stream provides Redis Streams transport with durable checkpoints.
type Stream struct {
	client *redis.Client
}

func NewStream(url string) (*Stream, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Stream{client: client}, nil
}

func (s *Stream) Close() error {
	return s.client.Close()
}

func (s *Stream) Client() *redis.Client {
	return s.client
}

func (s *Stream) PublishJSON(ctx context.Context, stream string, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode stream message: %w", err)
	}
	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{payloadField: body},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %s: %w", stream, err)
	}
	return id, nil
}

func (s *Stream) ReadJSON(ctx context.Context, stream string, lastID string, dst any) (string, error) {
	if strings.TrimSpace(lastID) == "" {
		lastID = "0"
	}
	for {
		res, err := s.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{stream, lastID},
			Count:   1,
			Block:   5 * time.Second,
		}).Result()
		if err == redis.Nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		if err != nil {
			return "", fmt.Errorf("xread %s: %w", stream, err)
		}
		if len(res) == 0 || len(res[0].Messages) == 0 {
			continue
		}
		msg := res[0].Messages[0]
		raw, ok := msg.Values[payloadField]
		if !ok {
			return "", fmt.Errorf("stream %s entry %s has no payload field", stream, msg.ID)
		}
		body, err := streamPayload(raw)
		if err != nil {
			return "", fmt.Errorf("stream %s entry %s: %w", stream, msg.ID, err)
		}
		if err := json.Unmarshal(body, dst); err != nil {
			return "", fmt.Errorf("decode stream message %s: %w", msg.ID, err)
		}
		return msg.ID, nil
	}
}

// LoadStreamCheckpoint returns the persisted offset for checkpointKey,
// or empty when none exists.
func (s *Stream) LoadStreamCheckpoint(ctx context.Context, checkpointKey string) (string, error) {
	v, err := s.client.Get(ctx, checkpointKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load checkpoint %s: %w", checkpointKey, err)
	}
	return v, nil
}

func (s *Stream) PersistStreamCheckpoint(ctx context.Context, checkpointKey, streamID string) error {
	if err := s.client.Set(ctx, checkpointKey, streamID, 0).Err(); err != nil {
		return fmt.Errorf("persist checkpoint %s: %w", checkpointKey, err)
	}
	return nil
}

func streamPayload(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case fmt.Stringer:
		return []byte(v.String()), nil
	default:
		return nil, fmt.Errorf("payload type %T not supported", raw)
	}
}

// ParseStreamOffset extracts the numeric part of a stream offset,
// clamping negatives to zero. Compound ids ("123-0") keep only the
// leading component.
func ParseStreamOffset(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "0" {
		return 0, nil
	}
	head := trimmed
	if i := strings.Index(trimmed, "-"); i > 0 {
		head = trimmed[:i]
	}
	v, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid stream offset %q", raw)
	}
	if v < 0 {
		return 0, nil
	}
	return v, nil
}

// ValidateStreamOffset rejects malformed stream offsets. Empty and "0"
// are valid bootstrap values.
func ValidateStreamOffset(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "0" {
		return nil
	}

	parts := strings.SplitN(trimmed, "-", 2)
	if len(parts) == 2 {
		if strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return fmt.Errorf("invalid stream offset %q: missing components", raw)
		}
		msg, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil || msg < 0 {
			return fmt.Errorf("invalid stream offset %q: malformed id", raw)
		}
		seq, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil || seq < 0 {
			return fmt.Errorf("invalid stream offset %q: malformed id", raw)
		}
		return nil
	}

	msg, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || msg < 0 {
		return fmt.Errorf("invalid stream offset %q: malformed id", raw)
	}
	return nil
}
