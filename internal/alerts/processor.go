package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/config"
)

// TokenLookup resolves the Expo push token of a user ("" when none).
type TokenLookup interface {
	PushToken(ctx context.Context, userID string) (string, error)
}

type expoSender interface {
	Send(ctx context.Context, to, title, body string, data map[string]string) error
}

type webSender interface {
	SendToUser(ctx context.Context, userID, title, body string, data map[string]string) error
}

// dispatcher delivers one push payload over every configured channel.
type dispatcher struct {
	tokens TokenLookup
	expo   expoSender
	web    webSender
}

var (
	clientMu  sync.Mutex
	client    *asynq.Client
	server    *asynq.Server
	redisAddr = "127.0.0.1:6379"

	webPush  *WebPushSender
	dispatch dispatcher
)

// Init creates the shared client and, when enabled, starts the in-process
// worker. tokens resolves Expo recipients for the worker.
func Init(cfg config.Config, tokens TokenLookup) {
	redisAddr = cfg.RedisAddr
	opts := asynq.RedisClientOpt{Addr: redisAddr}

	clientMu.Lock()
	client = asynq.NewClient(opts)
	clientMu.Unlock()

	webPush = NewWebPushSender(cfg.VAPIDPublic, cfg.VAPIDPrivate, cfg.VAPIDSubject)
	dispatch = dispatcher{tokens: tokens, expo: NewExpoClient(cfg.ExpoPushURL)}
	if webPush.Enabled() {
		dispatch.web = webPush
	}

	if !cfg.AlertsWorker {
		log.Printf("Asynq client initialized (addr=%s, worker disabled)", redisAddr)
		return
	}

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			queuePush: 10,
		},
	})
	go func() {
		if err := server.Run(newMux()); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", redisAddr)
}

func newMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskMatchNew, handlePush)
	mux.HandleFunc(TaskProposalNew, handlePush)
	mux.HandleFunc(TaskProposalStatus, handlePush)
	mux.HandleFunc(TaskMessageNew, handlePush)
	return mux
}

// Close releases client and stops server.
func Close() {
	clientMu.Lock()
	defer clientMu.Unlock()
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

// handlePush fans a notification out to the user's Expo token and browser
// subscriptions.
func handlePush(ctx context.Context, t *asynq.Task) error {
	var p PushPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	return dispatch.push(ctx, t.Type(), p)
}

// push tries every channel even when one fails and returns the joined
// failures so the task is retried.
func (d dispatcher) push(ctx context.Context, taskType string, p PushPayload) error {
	var errs []error

	if d.expo != nil && d.tokens != nil {
		token, err := d.tokens.PushToken(ctx, p.UserID)
		switch {
		case apperr.Is(err, apperr.KindNotFound):
			log.Printf("[notify] %s recipient %s no longer exists", taskType, p.UserID)
		case err != nil:
			log.Printf("[notify][ERROR] %s token lookup for %s failed: %v", taskType, p.UserID, err)
			errs = append(errs, err)
		case token != "":
			if err := d.expo.Send(ctx, token, p.Title, p.Body, p.Data); err != nil {
				log.Printf("[notify][ERROR] %s expo push failed: %v", taskType, err)
				errs = append(errs, err)
			} else {
				log.Printf("[notify] %s expo push sent -> user=%s", taskType, p.UserID)
			}
		}
	}

	if d.web != nil {
		if err := d.web.SendToUser(ctx, p.UserID, p.Title, p.Body, p.Data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
