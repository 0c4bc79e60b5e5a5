package telemetry

import (
	"context"
	"testing"
)

func TestInitTracer_DisabledWithoutCollector(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "job-board", "  ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown err: %v", err)
	}

	_, span := GetTracer("job-board/test").Start(context.Background(), "noop")
	defer span.End()
	if span.SpanContext().IsValid() {
		t.Fatalf("expected no-op span without collector")
	}
}

func TestAttributeHelpers(t *testing.T) {
	if kv := String("db.table", "jobs"); kv.Value.AsString() != "jobs" {
		t.Fatalf("unexpected string attr %v", kv)
	}
	if kv := Int64("job.id", 42); kv.Value.AsInt64() != 42 {
		t.Fatalf("unexpected int64 attr %v", kv)
	}
	if kv := Int("rows", 3); kv.Value.AsInt64() != 3 {
		t.Fatalf("unexpected int attr %v", kv)
	}
}
