// Package storage 按配置打开工作台使用的持久化后端。
package storage

import (
	"context"

	"EntityFactory/internal/persistence"
	"EntityFactory/internal/persistence/gormstore"
	"EntityFactory/internal/persistence/memory"
	"EntityFactory/internal/persistence/mongodb"
	"EntityFactory/internal/shared/infrastructure/db"
	mongoinfra "EntityFactory/internal/shared/infrastructure/mongo"
	"EntityFactory/internal/shared/serverconfig"
	"EntityFactory/internal/workbench/record"
	"EntityFactory/modules/kit/logx"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Backend 持有 unit of work 和底层连接。
type Backend struct {
	Driver     string
	UnitOfWork *persistence.UnitOfWork
	// Memory 只在 memory 驱动下非空。
	Memory *memory.Store
	close  func(ctx context.Context) error
}

func Open(ctx context.Context, cfg serverconfig.Config, l *zap.Logger) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = zap.NewNop()
	}
	schema := record.Schema()
	opts := []persistence.Option{persistence.WithLogger(logx.NewZapLogger(l))}

	switch cfg.Persistence.Driver {
	case serverconfig.DriverMySQL, serverconfig.DriverPostgres:
		gdb, err := openGorm(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:     cfg.Persistence.Driver,
			UnitOfWork: gormstore.New(gdb, schema, opts...),
			close:      func(context.Context) error { return sqlDB.Close() },
		}, nil

	case serverconfig.DriverMongoDB:
		client, err := mongoinfra.Open(ctx, cfg.MongoDB, l)
		if err != nil {
			return nil, err
		}
		uow, err := mongodb.New(client.Database(cfg.MongoDB.Database), schema, opts...)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Backend{Driver: cfg.Persistence.Driver, UnitOfWork: uow, close: client.Disconnect}, nil

	default:
		uow, store := memory.New(schema, opts...)
		return &Backend{Driver: serverconfig.DriverMemory, UnitOfWork: uow, Memory: store}, nil
	}
}

func openGorm(cfg serverconfig.Config) (*gorm.DB, error) {
	if cfg.Persistence.Driver == serverconfig.DriverPostgres {
		return db.OpenPostgres(cfg.Postgres)
	}
	return db.Open(cfg.MySQL)
}

func (b *Backend) Close(ctx context.Context) error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close(ctx)
}
