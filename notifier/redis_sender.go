package notifier

import (
	"context"
	"encoding/json"

	"timeboss-backend/models"

	redis "github.com/redis/go-redis/v9"
)

// publisher is satisfied by *redis.Client
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSender publishes messages on a Redis channel consumed by an external gateway
type RedisSender struct {
	rdb     publisher
	closer  func() error
	channel string
}

func NewRedisSender(url, channel string) (*RedisSender, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	return &RedisSender{rdb: rdb, closer: rdb.Close, channel: channel}, nil
}

func (s *RedisSender) Send(ctx context.Context, msg models.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, s.channel, data).Err()
}

func (s *RedisSender) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
