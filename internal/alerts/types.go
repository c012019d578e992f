package alerts

import "time"

// Task type constants
const (
	TaskMatchNew       = "push:match_new"
	TaskProposalNew    = "push:proposal_new"
	TaskProposalStatus = "push:proposal_status"
	TaskMessageNew     = "push:message_new"
)

const queuePush = "push"

// Notification is what the engines hand to the notifier.
type Notification struct {
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Reference string            `json:"reference,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// PushPayload is the asynq task body for every push task.
type PushPayload struct {
	Notification
	QueuedAt time.Time `json:"queued_at"`
}

// taskFor maps a notification type onto its task name.
func taskFor(ntype string) string {
	switch ntype {
	case TypeMatchNew:
		return TaskMatchNew
	case TypeProposalNew:
		return TaskProposalNew
	case TypeProposalStatus:
		return TaskProposalStatus
	}
	return TaskMessageNew
}

// Notification types as stored in the in-app notifications table.
const (
	TypeMatchNew       = "match:new"
	TypeProposalNew    = "proposal:new"
	TypeProposalStatus = "proposal:status"
	TypeMessageNew     = "message:new"
)
