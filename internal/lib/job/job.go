// Package job runs background work on asynq. Producers enqueue through
// JobService.Client; the embedded server executes the registered handlers.
package job

import (
	"github.com/deppfellow/petclinic/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService owns the asynq client used to enqueue and the server that runs tasks.
type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	logger *zerolog.Logger

	notifier    VisitNotifier
	clinicInbox string
}

// NewJobService connects the client and server to the configured Redis.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client:      client,
		server:      server,
		logger:      logger,
		clinicInbox: cfg.Integration.ClinicInbox,
	}
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskVisitScheduled, j.handleVisitScheduledTask)
	return mux
}

// Start launches the worker pool and returns immediately.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")
	return j.server.Start(j.mux())
}

// Stop shuts the worker down and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}
