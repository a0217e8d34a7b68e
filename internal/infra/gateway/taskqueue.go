package gateway

import (
	"context"
	"encoding/json"

	"restaurant-console/internal/domain/notification"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/usecase/notify"

	"github.com/hibiken/asynq"
)

const TaskTypeSendNotification = "notification:send"

// Enqueuer is the part of *asynq.Client the task queue needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskQueue enqueues one asynq task per message. Tasks carry MaxRetry(0):
// a failed send is reported, never retried.
type TaskQueue struct {
	client Enqueuer
	queue  string
}

var _ notify.Gateway = (*TaskQueue)(nil)

func NewTaskQueue(client Enqueuer, queue string) *TaskQueue {
	return &TaskQueue{client: client, queue: queue}
}

func (q *TaskQueue) Send(ctx context.Context, msg notification.Message) (notify.Delivery, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return notify.Delivery{}, errs.Wrap(err, "failed to encode notification payload")
	}

	task := asynq.NewTask(TaskTypeSendNotification, payload)
	if _, err := q.client.EnqueueContext(ctx, task, asynq.Queue(q.queue), asynq.MaxRetry(0)); err != nil {
		return notify.Delivery{}, errs.Wrapf(err, "failed to enqueue notification on %s", q.queue)
	}
	return notify.Delivery{Delivered: true}, nil
}
