package logs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"EntityFactory/internal/shared/serverconfig"
	"EntityFactory/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	glogger "gorm.io/gorm/logger"
)

func TestInit_写文件并替换全局logger(t *testing.T) {
	t.Cleanup(func() { Replace(nil) })
	path := filepath.Join(t.TempDir(), "app.log")

	if err := Init("test", serverconfig.LogConfig{FileDir: path, Level: "DEBUG"}); err != nil {
		t.Fatalf("Init 失败: %v", err)
	}
	if !Logger().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("期望 debug 级别已开启")
	}
}

func TestGormLogger_按错误和慢查询分级(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	Replace(zap.New(core))
	t.Cleanup(func() { Replace(nil) })

	gl := NewGormLogger(glogger.Info, 10*time.Millisecond)
	ctx := tracex.WithTraceID(context.Background(), "t-1")
	sql := func() (string, int64) { return "INSERT INTO users", 1 }

	gl.Trace(ctx, time.Now(), sql, errors.New("dup"))
	gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	gl.Trace(ctx, time.Now(), sql, glogger.ErrRecordNotFound)

	entries := recorded.All()
	if len(entries) != 3 {
		t.Fatalf("期望 3 条日志，got=%d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel || entries[1].Level != zapcore.WarnLevel || entries[2].Level != zapcore.DebugLevel {
		t.Fatalf("日志级别不符合预期: %v %v %v", entries[0].Level, entries[1].Level, entries[2].Level)
	}
	if entries[0].ContextMap()["trace_id"] != "t-1" {
		t.Fatalf("期望带上 trace_id")
	}

	silent := gl.LogMode(glogger.Silent)
	silent.Trace(ctx, time.Now(), sql, errors.New("ignored"))
	if recorded.Len() != 3 {
		t.Fatalf("Silent 模式不应输出日志")
	}
}
