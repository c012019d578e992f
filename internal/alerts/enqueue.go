package alerts

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// Notifier delivers notifications without ever failing the caller.
type Notifier struct {
	enqueue func(task *asynq.Task) error
	inApp   func(ctx context.Context, n Notification) error
}

// NewNotifier uses the shared asynq client and the notifications table.
func NewNotifier() *Notifier {
	return &Notifier{
		enqueue: func(task *asynq.Task) error {
			_, err := ensureClient().Enqueue(task, asynq.Queue(queuePush), asynq.MaxRetry(3))
			return err
		},
		inApp: CreateNotification,
	}
}

// Notify records the in-app notification and queues the push. It returns
// immediately; failures are logged.
func (n *Notifier) Notify(ctx context.Context, note Notification) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[notify][ERROR] panic delivering %s to %s: %v", note.Type, note.UserID, r)
			}
		}()
		// Detach from the request so a finished response does not cancel delivery.
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		n.deliver(bg, note)
	}()
}

func (n *Notifier) deliver(ctx context.Context, note Notification) {
	if n.inApp != nil {
		if err := n.inApp(ctx, note); err != nil {
			log.Printf("[notify][ERROR] in-app %s for %s failed: %v", note.Type, note.UserID, err)
		}
	}
	b, err := json.Marshal(PushPayload{Notification: note, QueuedAt: time.Now()})
	if err != nil {
		log.Printf("[notify][ERROR] marshal %s: %v", note.Type, err)
		return
	}
	if err := n.enqueue(asynq.NewTask(taskFor(note.Type), b)); err != nil {
		log.Printf("[notify][ERROR] enqueue %s for %s failed: %v", note.Type, note.UserID, err)
		return
	}
	log.Printf("[notify] %s queued -> user=%s", note.Type, note.UserID)
}

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	clientMu.Lock()
	defer clientMu.Unlock()
	if client == nil {
		client = asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	}
	return client
}
