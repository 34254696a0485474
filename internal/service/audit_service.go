package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/pkg/jobs"
)

const auditJobType = "audit"

// AuditConfig sizes the audit worker pool.
type AuditConfig struct {
	Enabled    bool
	Workers    int
	BufferSize int
}

// AuditService queues audit events and writes them to the "audit" logger off the request path.
type AuditService struct {
	queue   *jobs.Queue
	sink    *zap.Logger
	metrics *MetricsService
	logger  *zap.Logger
	enabled bool
}

// NewAuditService builds the service and its queue. Start must be called before Record.
func NewAuditService(cfg AuditConfig, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AuditService{sink: logger.Named("audit"), metrics: metrics, logger: logger, enabled: cfg.Enabled}
	svc.queue = jobs.NewQueue(auditJobType, svc.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return svc
}

// Start launches the workers.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil || !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains queued events.
func (s *AuditService) Stop() {
	if s == nil || !s.enabled {
		return
	}
	s.queue.Stop()
}

// Record queues an event without blocking. Events are dropped when the queue is full.
func (s *AuditService) Record(event models.AuditEvent) {
	if s == nil || !s.enabled {
		return
	}
	if err := s.queue.TryEnqueue(jobs.Job{Type: auditJobType, Payload: event}); err != nil {
		s.metrics.IncAuditDropped()
		s.logger.Warn("audit event dropped", zap.String("action", event.Action), zap.Error(err))
	}
}

func (s *AuditService) handle(_ context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.AuditEvent)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	s.sink.Info(event.Action,
		zap.String("actor_id", event.ActorID),
		zap.String("resource", event.Resource),
		zap.String("resource_id", event.ResourceID),
		zap.Any("details", event.Details),
		zap.String("ip_address", event.IPAddress),
		zap.String("user_agent", event.UserAgent),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
