package services

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/taskhub-dev/taskhub/internal/config"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/pkg/logger"
)

const TaskTypeEmail = "notify:email"

// EmailJob is the payload for an outbound notification email.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DispatchQueue carries email jobs out of the request path.
type DispatchQueue interface {
	Enqueue(job *EmailJob) error
	IsAsync() bool
	Close() error
}

// Dispatcher is the single path through which record managers emit
// notifications. The notification row is written synchronously right
// after the primary write (best-effort, no shared transaction); the
// email leaves through the queue so the handler never waits on SMTP.
type Dispatcher struct {
	notifications *NotificationService
	queue         DispatchQueue
	emails        *EmailService
}

func NewDispatcher(notifications *NotificationService, queue DispatchQueue, emails *EmailService) *Dispatcher {
	return &Dispatcher{notifications: notifications, queue: queue, emails: emails}
}

// Notify persists a notification for the recipient and queues the
// matching email. A failure here is logged, never propagated: the
// primary write already succeeded and must not be rolled back over a
// side effect.
func (d *Dispatcher) Notify(recipient *models.User, typ, title, message, link string) {
	n := &models.Notification{
		UserID:  recipient.ID,
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := d.notifications.Create(n); err != nil {
		logger.Errorf("[Dispatch] failed to store %s notification for user %d: %v", typ, recipient.ID, err)
		return
	}

	if !d.emails.Enabled() || recipient.Email == "" {
		return
	}

	job := &EmailJob{
		To:      recipient.Email,
		Subject: "[TaskHub] " + title,
		Body:    NotificationBody(title, message, link),
	}
	if err := d.queue.Enqueue(job); err != nil {
		logger.Errorf("[Dispatch] failed to enqueue email for %s: %v", job.To, err)
	}
}

// InitDispatchQueue picks the queue implementation: Redis-backed asynq
// when enabled, otherwise in-process fire-and-forget.
func InitDispatchQueue(cfg *config.Config, emails *EmailService) DispatchQueue {
	if cfg.Redis.Enabled {
		queue, err := NewAsynqQueue(&cfg.Redis)
		if err != nil {
			logger.Warnf("[Dispatch] Redis unavailable, falling back to sync mode: %v", err)
			return NewSyncQueue(emails)
		}
		logger.Infof("[Dispatch] async queue initialized with Redis at %s", cfg.Redis.Addr)
		return queue
	}
	logger.Infof("[Dispatch] sync queue initialized (Redis disabled)")
	return NewSyncQueue(emails)
}

// AsynqQueue implements DispatchQueue on asynq (Redis-based).
type AsynqQueue struct {
	client *asynq.Client
}

func NewAsynqQueue(cfg *config.RedisConfig) (*AsynqQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection before accepting jobs
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsynqQueue{client: client}, nil
}

func (q *AsynqQueue) Enqueue(job *EmailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	info, err := q.client.Enqueue(
		asynq.NewTask(TaskTypeEmail, payload),
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Infof("[Dispatch] email job enqueued: id=%s", info.ID)
	return nil
}

func (q *AsynqQueue) IsAsync() bool { return true }

func (q *AsynqQueue) Close() error { return q.client.Close() }

// SyncQueue implements DispatchQueue without Redis: each job is sent in
// its own goroutine so the request is not blocked on SMTP.
type SyncQueue struct {
	emails *EmailService
}

func NewSyncQueue(emails *EmailService) *SyncQueue {
	return &SyncQueue{emails: emails}
}

func (q *SyncQueue) Enqueue(job *EmailJob) error {
	go func() {
		if err := q.emails.Send([]string{job.To}, job.Subject, job.Body); err != nil {
			logger.Errorf("[Dispatch] email delivery failed: %v", err)
		}
	}()
	return nil
}

func (q *SyncQueue) IsAsync() bool { return false }

func (q *SyncQueue) Close() error { return nil }

// Worker consumes email jobs from Redis when the async queue is in use.
type Worker struct {
	server *asynq.Server
	emails *EmailService
}

func NewWorker(cfg *config.RedisConfig, emails *EmailService) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB},
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{"default": 1},
		},
	)
	return &Worker{server: server, emails: emails}
}

// Start begins processing jobs in the background.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeEmail, w.handleEmail)
	return w.server.Start(mux)
}

// Stop shuts the worker down, waiting for in-flight jobs.
func (w *Worker) Stop() {
	w.server.Shutdown()
}

func (w *Worker) handleEmail(ctx context.Context, t *asynq.Task) error {
	var job EmailJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return err
	}
	return w.emails.Send([]string{job.To}, job.Subject, job.Body)
}
