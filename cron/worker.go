package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"andino/config"
	"andino/models"
	"andino/services/booking"
	"andino/services/tasks"

	"github.com/hibiken/asynq"
)

// InitRecheckWorker runs the deferred payment-status worker in background.
func InitRecheckWorker(reconciler *booking.Reconciler) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePaymentRecheck, handleRecheckTask(reconciler))

	// Start async worker with retry logic
	go func() {
		log.Println("[RecheckWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[RecheckWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[RecheckWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleRecheckTask(reconciler *booking.Reconciler) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.RecheckPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[RecheckHandler] invalid payload: %v", err)
			return err
		}

		result, err := reconciler.Recheck(ctx, p.BookingID, p.TransactionID, p.Attempt)
		if err != nil {
			// Transient failures reschedule themselves; asynq retries the rest.
			log.Printf("[RecheckHandler] recheck failed for booking %s: %v", p.BookingID, err)
			return err
		}

		log.Printf("[RecheckHandler] booking %s status %s (confirmed=%t)",
			result.BookingID, result.Status, result.Confirmed)
		return nil
	}
}

// NewTaskClient builds the asynq client used to enqueue rechecks.
func NewTaskClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
}
