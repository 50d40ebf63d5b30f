package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/config"
	"nbs-ytbot/internal/handler"
	"nbs-ytbot/internal/ingest"
	"nbs-ytbot/internal/llm"
	"nbs-ytbot/internal/metrics"
	"nbs-ytbot/internal/models"
	"nbs-ytbot/internal/publisher"
	"nbs-ytbot/internal/repository"
	"nbs-ytbot/internal/scheduler"
	"nbs-ytbot/internal/service"
	"nbs-ytbot/internal/transcript"
	"nbs-ytbot/internal/youtube"
)

// Application holds every wired component of the bot
type Application struct {
	Config    *config.Config
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Store     *repository.SQLRepository
	Limiters  *service.RateLimiters
	Queue     *service.JobQueue
	Worker    *service.WorkerService
	Indexer   *service.IndexService
	Drafts    *service.DraftService
	Scheduler *scheduler.Scheduler

	llm       *llm.Client
	publisher *publisher.RabbitMQ
}

// New builds the application from cfg. The caller must Close it.
func New(cfg *config.Config) (*Application, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	store, err := repository.NewSQLRepository(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("initialize repository: %w", err)
	}

	a := &Application{
		Config:   cfg,
		Registry: reg,
		Metrics:  m,
		Store:    store,
		Limiters: service.NewRateLimiters(cfg.RateLimits, m),
	}

	a.llm, err = llm.NewClient(cfg.LLM, a.Limiters, a.Limiters)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("initialize llm client: %w", err)
	}

	pipeline, err := ingest.NewPipeline(ingest.Chunker{Size: cfg.Ingest.ChunkSize, Overlap: cfg.Ingest.ChunkOverlap}, a.llm, store)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("initialize ingest pipeline: %w", err)
	}

	resolver := transcript.NewResolver(transcript.NewSources(cfg.Transcript, a.Limiters)...)
	a.Indexer = service.NewIndexService(store, resolver, pipeline, service.IndexOptionsFromConfig(cfg.Index), m)

	a.Queue = service.NewJobQueue(cfg.Jobs.Retention, m)
	if cfg.RabbitMQ.Enabled {
		a.publisher, err = publisher.NewRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("initialize publisher: %w", err)
		}
		a.Queue.WithPublisher(a.publisher)
	}

	yt := youtube.NewClient(cfg.YouTube, nil)
	a.Queue.Register(models.JobTypePostReply, service.NewPostReplyHandler(store, yt, a.Limiters.YouTubeWrite, m))
	a.Worker = service.NewWorkerService(a.Queue, m)

	a.Drafts = service.NewDraftService(store, a.llm, a.llm, a.Queue, service.DraftOptionsFromConfig(cfg.Drafts, cfg.LLM), m)
	a.Scheduler = scheduler.NewScheduler(a.Indexer, a.Drafts, cfg.Scheduler.Interval, cfg.Scheduler.RunTimeout)

	logrus.WithFields(logrus.Fields{
		"driver":  cfg.Database.Driver,
		"sources": resolver.Sources(),
	}).Info("application initialized")
	return a, nil
}

// Router returns the HTTP API over the application's services
func (a *Application) Router() http.Handler {
	return handler.NewRouter(
		handler.NewJobHandler(a.Queue, a.Metrics),
		handler.NewBotHandler(a.Indexer, a.Drafts),
		a.Registry,
	)
}

// Start launches background housekeeping tied to ctx
func (a *Application) Start(ctx context.Context) {
	a.Limiters.StartEviction(ctx, a.Config.RateLimits.IdleTTL)
}

func (a *Application) Close() error {
	if a.Limiters != nil {
		a.Limiters.Stop()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			logrus.WithError(err).Warn("error closing publisher")
		}
	}
	if a.llm != nil {
		a.llm.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
