package logx

import (
	"context"
	"errors"
	"testing"

	"EntityFactory/modules/kit/errx"
	"EntityFactory/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WithContext带上trace字段(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ctx := tracex.WithSpanID(tracex.WithTraceID(context.Background(), "t-1"), "s-1")
	l.WithContext(ctx).Info("hello")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志，got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != "t-1" || fields["span_id"] != "s-1" {
		t.Fatalf("trace 字段不对：%v", fields)
	}
}

func TestReportAccess_按业务码分级(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := context.Background()

	ReportAccessWithLoggerContext(ctx, l, "POST /__factory__/create", 0)
	ReportAccessWithLoggerContext(ctx, l, "POST /__factory__/create", 422)
	ReportAccessWithLoggerContext(ctx, l, "POST /__factory__/create", 500)

	want := []zapcore.Level{zap.InfoLevel, zap.WarnLevel, zap.ErrorLevel}
	entries := recorded.All()
	if len(entries) != len(want) {
		t.Fatalf("期望 %d 条日志，got=%d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条日志级别期望 %v，got=%v", i, want[i], e.Level)
		}
	}
}

func TestReportSysError_带错误码和cause(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	l := NewZapLogger(zap.New(core))

	err := errx.ErrUnavailable.WithMsg("insert into posts failed").WithCause(errors.New("deadlock"))
	ReportSysErrorWithLoggerContext(context.Background(), l, NewSysLog("factory.create", err))

	entries := recorded.FilterField(zap.String("error_code", string(errx.CodeUnavailable))).All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条带 error_code 的日志，got=%d", len(recorded.All()))
	}
	if entries[0].Level != zap.ErrorLevel {
		t.Fatalf("系统错误应为 ERROR 级别")
	}
}

func TestNop_不输出也不panic(t *testing.T) {
	l := Nop()
	l.WithContext(context.Background()).Error("ignored")

	var nilLogger *ZapLogger
	if nilLogger.Zap() == nil {
		t.Fatalf("nil ZapLogger 也应返回可用的 zap.Logger")
	}
}
