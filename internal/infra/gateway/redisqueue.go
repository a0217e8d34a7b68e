package gateway

import (
	"context"
	"encoding/json"

	"restaurant-console/internal/domain/notification"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/usecase/notify"

	"github.com/go-redis/redis/v8"
)

// ListPusher is the part of *redis.Client the queue needs.
type ListPusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisQueue pushes JSON messages onto a list consumed by the mailer.
type RedisQueue struct {
	client ListPusher
	key    string
}

var _ notify.Gateway = (*RedisQueue)(nil)

func NewRedisQueue(client ListPusher, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Send(ctx context.Context, msg notification.Message) (notify.Delivery, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return notify.Delivery{}, errs.Wrap(err, "failed to encode notification payload")
	}
	n, err := q.client.LPush(ctx, q.key, payload).Result()
	if err != nil {
		return notify.Delivery{}, errs.Wrapf(err, "failed to push notification onto %s", q.key)
	}
	if n == 0 {
		return notify.Delivery{Reason: "queue_rejected"}, nil
	}
	return notify.Delivery{Delivered: true}, nil
}
