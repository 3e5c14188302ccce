package taskqueue

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// taskNamespace scopes deterministic task names to this service.
var taskNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("bearjetso-reminder-scheduling/notification-task"))

type NotificationTask struct {
	UserID     string    `json:"user_id"`
	ReminderID int32     `json:"reminder_id"`
	DiscountID int64     `json:"discount_id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	ScheduleAt time.Time `json:"fire_at"`
	// ScheduledAt is when the reminder was written to the store.
	ScheduledAt time.Time `json:"scheduled_at"`
}

// TaskName identifies one firing of one stored reminder. Dispatching it twice
// yields the same name, so the queue rejects the duplicate. A reminder stored
// again by a later plan gets a new name, which Cloud Tasks requires after a
// delete.
func (t *NotificationTask) TaskName() string {
	key := fmt.Sprintf("%s:%d:%d:%d", t.UserID, t.ReminderID, t.ScheduleAt.Unix(), t.ScheduledAt.UnixMilli())
	return uuid.NewSHA1(taskNamespace, []byte(key)).String()
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
