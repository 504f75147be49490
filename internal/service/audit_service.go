package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ajay-verma30/Neil-admin-sub000/internal/events"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/persistence"
)

const (
	auditListKey = "audit:events"
	auditListCap = 10000
)

// AuditService records session and placement lifecycle events to the log and,
// when Redis is reachable, to a capped audit list.
type AuditService struct {
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
}

// NewAuditService builds the service.
func NewAuditService(dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, redis: redis, logger: logger}
}

// RegisterHandlers subscribes the audit sink to every event type it records.
func (s *AuditService) RegisterHandlers() {
	for _, eventType := range []events.EventType{
		events.EventUserLoggedIn,
		events.EventUserLoggedOut,
		events.EventSessionRefreshed,
		events.EventRefreshRejected,
		events.EventPlacementSaved,
		events.EventPlacementDeleted,
	} {
		s.dispatcher.Subscribe(eventType, s.record)
	}
}

type auditEntry struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func (s *AuditService) record(ctx context.Context, event events.Event) error {
	s.logger.Info("audit event",
		zap.String("type", string(event.Type)),
		zap.Any("payload", event.Payload),
	)

	if s.redis == nil || s.redis.Client == nil {
		return nil
	}

	entry := auditEntry{
		Type:       string(event.Type),
		OccurredAt: event.OccurredAt,
		Payload:    event.Payload,
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := s.redis.Client.TxPipeline()
	pipe.LPush(ctx, auditListKey, payload)
	pipe.LTrim(ctx, auditListKey, 0, auditListCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("audit write failed", zap.Error(err))
	}
	return nil
}
