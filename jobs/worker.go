package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// WorkerConfig collects what the maintenance worker needs: the Redis
// connection, its task handlers and the cron schedule.
type WorkerConfig struct {
	RedisOpts asynq.RedisClientOpt
	Logger    *slog.Logger
	Handlers  []TaskHandler
	Cron      []CronRegistration
}

// TaskHandler binds a task type to its handler.
type TaskHandler struct {
	Type    string
	Handler asynq.HandlerFunc
}

// CronRegistration schedules a prepared task on a cron expression.
type CronRegistration struct {
	Spec    string
	Task    *asynq.Task
	Options []asynq.Option
}

// Worker runs the asynq server plus, when cron entries are registered,
// the scheduler that enqueues them.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

// NewWorker assembles the worker from its configuration.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	server := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{QueueDefault: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("task failed",
				slog.String("type", task.Type()),
				slog.Any("error", err))
		}),
	})

	mux := asynq.NewServeMux()
	for _, h := range cfg.Handlers {
		if h.Type == "" || h.Handler == nil {
			continue
		}
		mux.HandleFunc(h.Type, h.Handler)
	}

	w := &Worker{server: server, mux: mux, logger: logger}
	if len(cfg.Cron) == 0 {
		return w, nil
	}
	w.scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	for _, entry := range cfg.Cron {
		if entry.Spec == "" || entry.Task == nil {
			continue
		}
		id, err := w.scheduler.Register(entry.Spec, entry.Task, entry.Options...)
		if err != nil {
			return nil, err
		}
		logger.Info("cron registered",
			slog.String("type", entry.Task.Type()),
			slog.String("spec", entry.Spec),
			slog.String("entry_id", id))
	}
	return w, nil
}

// Run processes tasks until the context is cancelled, then shuts the
// scheduler and server down in order.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return errors.New("jobs: worker not configured")
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
	}
	done := make(chan error, 1)
	go func() { done <- w.server.Run(w.mux) }()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-done:
	}
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
	return err
}
