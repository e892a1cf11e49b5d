package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestEnsureTraceID_保留已有的trace(t *testing.T) {
	ctx, tid := EnsureTraceID(WithTraceID(context.Background(), "t-1"))
	if tid != "t-1" {
		t.Fatalf("期望沿用 t-1，got=%q", tid)
	}
	if got, _ := TraceIDFrom(ctx); got != "t-1" {
		t.Fatalf("ctx 里的 trace_id 被改写：%q", got)
	}

	ctx, tid = EnsureTraceID(context.Background())
	if len(tid) != 32 {
		t.Fatalf("新 trace_id 应为 32 位 hex，got=%q", tid)
	}
	if got, ok := TraceIDFrom(ctx); !ok || got != tid {
		t.Fatalf("新 trace_id 没写入 ctx")
	}
}

func TestSpanIDFrom_空值视为不存在(t *testing.T) {
	if _, ok := SpanIDFrom(WithSpanID(context.Background(), "")); ok {
		t.Fatalf("空 span_id 不应被视为存在")
	}
}
