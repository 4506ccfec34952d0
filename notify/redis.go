package notify

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	defaultStreamMaxLen   = 10000
	defaultPublishTimeout = 2 * time.Second
)

// RedisSink appends notifications to a Redis stream so front-desk screens
// can follow them with XREAD.
type RedisSink struct {
	client  *redis.Client
	stream  string
	timeout time.Duration
	log     *zap.Logger
}

func NewRedisSink(client *redis.Client, stream string, log *zap.Logger) *RedisSink {
	return &RedisSink{
		client:  client,
		stream:  stream,
		timeout: defaultPublishTimeout,
		log:     log.Named("notify.redis"),
	}
}

func (s *RedisSink) Notify(level Level, title, message string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.publish(ctx, level, title, message); err != nil {
			s.log.Warn("failed to publish notification",
				zap.String("stream", s.stream),
				zap.String("title", title),
				zap.Error(err))
		}
	}()
}

func (s *RedisSink) publish(ctx context.Context, level Level, title, message string) (string, error) {
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: defaultStreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"level":   string(level),
			"title":   title,
			"message": message,
		},
	}).Result()
}
