// Package cron runs the background asynq worker that drains the notification
// queue out of the call turn's critical path.
package cron

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"movecall/config"
	"movecall/services/tasks"
	"movecall/utils"
)

// QueueRedisOpt returns the asynq Redis connection shared by the enqueuing
// client and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	cfg := config.AppConfig
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

// StartWorker launches the notification worker in its own goroutine. The
// returned server should be shut down on process exit.
func StartWorker(sender tasks.Sender) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(QueueRedisOpt(), asynq.Config{
		Concurrency: 4,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotifySend, tasks.HandleNotifyTask(sender))

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("notification worker stopped", zap.Error(err))
		}
	}()
	logger.Info("notification worker started")
	return srv
}
