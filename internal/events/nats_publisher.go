package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"job-board/internal/config"
	"job-board/internal/telemetry"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("job-board/events")

type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

func NewNATSPublisher(cfg config.NATSConfig, logger *zap.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("job-board"),
		nats.Timeout(cfg.ConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return &NATSPublisher{conn: conn, prefix: cfg.SubjectPrefix, logger: logger}, nil
}

// Subject maps job.created to <prefix>.created and so on.
func Subject(prefix string, t Type) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = "jobs"
	}
	return prefix + "." + strings.TrimPrefix(string(t), "job.")
}

func (p *NATSPublisher) Publish(ctx context.Context, evt JobEvent) error {
	_, span := tracer.Start(ctx, "PublishJobEvent")
	defer span.End()

	data, err := json.Marshal(evt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal job event: %w", err)
	}

	subject := Subject(p.prefix, evt.Type)
	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		span.RecordError(err)
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug("published job event",
		zap.String("subject", subject),
		zap.Int64("job_id", evt.JobID))
	return nil
}

func (p *NATSPublisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
