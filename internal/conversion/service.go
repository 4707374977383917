package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	inats "github.com/codeshift-app/codeshift/internal/nats"
	"github.com/codeshift-app/codeshift/internal/metrics"
	"github.com/codeshift-app/codeshift/internal/quota"
)

// QuotaConsumer is the slice of the quota service the pipeline needs.
type QuotaConsumer interface {
	Consume(ctx context.Context, userID uuid.UUID) (*quota.Status, error)
}

// HistoryPublisher emits conversion outcomes for asynchronous persistence.
type HistoryPublisher interface {
	PublishConversionEvent(ctx context.Context, event inats.ConversionEvent) error
}

// Service runs the conversion pipeline: validate, consume quota, check the
// result cache, compose the prompt, invoke the model and normalize its reply.
type Service struct {
	invoker        Invoker
	quota          QuotaConsumer
	cache          *Cache           // optional
	publisher      HistoryPublisher // optional
	maxSourceChars int
}

func NewService(invoker Invoker, quota QuotaConsumer, cache *Cache, publisher HistoryPublisher, maxSourceChars int) *Service {
	return &Service{
		invoker:        invoker,
		quota:          quota,
		cache:          cache,
		publisher:      publisher,
		maxSourceChars: maxSourceChars,
	}
}

// Convert translates one snippet for the given user. Quota is consumed on
// attempt: a request that later fails at the model still counts against the
// daily limit, which keeps retry storms from bypassing it.
func (s *Service) Convert(ctx context.Context, userID uuid.UUID, req *ConvertRequest) (*Result, error) {
	if err := ValidateRequest(req, s.maxSourceChars); err != nil {
		metrics.ConversionsTotal.WithLabelValues("invalid").Inc()
		return nil, stageErr(StageValidate, err)
	}

	status, err := s.quota.Consume(ctx, userID)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("error").Inc()
		return nil, stageErr(StageQuota, fmt.Errorf("consuming quota: %w", err))
	}
	if !status.Allowed {
		metrics.ConversionsTotal.WithLabelValues("quota_exceeded").Inc()
		return nil, stageErr(StageQuota, ErrQuotaExceeded)
	}

	if s.cache != nil {
		if res, ok := s.cache.Get(req); ok {
			metrics.ConversionCacheHitsTotal.Inc()
			metrics.ConversionsTotal.WithLabelValues("success").Inc()
			s.publishOutcome(userID, req, inats.ConversionStatusSuccess, res.ElapsedMs)
			return res, nil
		}
	}

	start := time.Now()
	raw, err := s.invoker.Invoke(ctx, BuildConversionPrompt(req))
	metrics.ModelRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("error").Inc()
		s.publishOutcome(userID, req, inats.ConversionStatusError, time.Since(start).Milliseconds())
		return nil, stageErr(StageInvoke, err)
	}

	res, err := Normalize(raw)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("error").Inc()
		s.publishOutcome(userID, req, inats.ConversionStatusError, time.Since(start).Milliseconds())
		return nil, stageErr(StageNormalize, err)
	}

	res.ElapsedMs = time.Since(start).Milliseconds()
	metrics.ConversionDuration.Observe(time.Since(start).Seconds())
	metrics.ConversionsTotal.WithLabelValues("success").Inc()

	if s.cache != nil {
		s.cache.Set(req, res)
	}
	s.publishOutcome(userID, req, inats.ConversionStatusSuccess, res.ElapsedMs)

	return res, nil
}

// publishOutcome is best effort. History must never fail a conversion, so
// errors are logged and dropped, and a detached timeout keeps a slow broker
// from holding the request open.
func (s *Service) publishOutcome(userID uuid.UUID, req *ConvertRequest, status string, durationMs int64) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := inats.ConversionEvent{
		UserID:         userID,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Status:         status,
		DurationMs:     durationMs,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.publisher.PublishConversionEvent(ctx, event); err != nil {
		slog.Warn("publishing conversion event", "error", err, "user_id", userID)
	}
}
