package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=task_queue_mock.go -package=taskqueue

// TaskQueue hands a due reminder to the delivery queue and withdraws it again
// when the reminder is cancelled before it fires.
type TaskQueue interface {
	RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error)
	// DeleteTask removes a registered task by TaskName. An unknown task is not an error.
	DeleteTask(ctx context.Context, taskName string) error
}
