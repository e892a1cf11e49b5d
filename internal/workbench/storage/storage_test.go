package storage

import (
	"context"
	"errors"
	"testing"

	"EntityFactory/internal/shared/serverconfig"
	"EntityFactory/modules/kit/errx"
)

func TestOpen_默认内存后端(t *testing.T) {
	b, err := Open(context.Background(), serverconfig.Config{
		Persistence: serverconfig.PersistenceConfig{Driver: serverconfig.DriverMemory},
	}, nil)
	if err != nil {
		t.Fatalf("Open 失败: %v", err)
	}
	if b.Memory == nil || b.UnitOfWork == nil {
		t.Fatalf("memory 驱动应返回内存存储")
	}
	if err := b.Close(context.Background()); err != nil {
		t.Fatalf("Close 失败: %v", err)
	}
}

func TestOpen_未知驱动(t *testing.T) {
	_, err := Open(context.Background(), serverconfig.Config{
		Persistence: serverconfig.PersistenceConfig{Driver: "redis"},
	}, nil)
	if !errors.Is(err, serverconfig.ErrUnknownDriver) {
		t.Fatalf("期望 ErrUnknownDriver，got=%v", err)
	}
}

func TestOpen_postgres缺少DSN(t *testing.T) {
	_, err := Open(context.Background(), serverconfig.Config{
		Persistence: serverconfig.PersistenceConfig{Driver: serverconfig.DriverPostgres},
	}, nil)
	if !errors.Is(err, errx.ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable，got=%v", err)
	}
}
