// Package db 打开 gorm 连接（mysql/postgres），日志统一走 logs.GormLogger。
package db

import (
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // 注册 database/sql 的 pgx 驱动
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"EntityFactory/internal/shared/logs"
	"EntityFactory/internal/shared/serverconfig"
	"EntityFactory/modules/kit/errx"
)

const pgxDriverName = "pgx"

// Config 返回本项目统一的 gorm 配置。
// 写入由 unit of work 自己包事务，因此关闭 gorm 的默认单条事务。
func Config(slowThreshold time.Duration) *gorm.Config {
	return &gorm.Config{
		Logger:                 logs.NewGormLogger(logger.Warn, slowThreshold),
		SkipDefaultTransaction: true,
	}
}

type pool struct {
	maxConn int
	maxIdle int
	slow    time.Duration
}

func Open(cfg serverconfig.MySQLConfig) (*gorm.DB, error) {
	return OpenDialector(mysql.Open(cfg.DSN()), cfg)
}

// OpenDialector 便于测试注入自定义连接。
func OpenDialector(dialector gorm.Dialector, cfg serverconfig.MySQLConfig) (*gorm.DB, error) {
	return open(dialector, "mysql", pool{
		maxConn: cfg.MaxConn,
		maxIdle: cfg.MaxIdle,
		slow:    time.Duration(cfg.SlowThresholdMS) * time.Millisecond,
	},
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
		zap.String("user", cfg.User),
	)
}

// OpenPostgres 通过 pgx 的 database/sql 驱动连接 postgres。
func OpenPostgres(cfg serverconfig.PostgresConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errx.ErrUnavailable.WithMsg("postgres dsn is empty")
	}
	dialector := postgres.New(postgres.Config{DriverName: pgxDriverName, DSN: cfg.DSN})
	return open(dialector, "postgres", pool{
		maxConn: cfg.MaxConn,
		maxIdle: cfg.MaxIdle,
		slow:    time.Duration(cfg.SlowThresholdMS) * time.Millisecond,
	})
}

func open(dialector gorm.Dialector, name string, p pool, fields ...zap.Field) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, Config(p.slow))
	if err != nil {
		return nil, errx.ErrUnavailable.WithMsgf("open %s failed", name).WithCause(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errx.ErrUnavailable.WithMsgf("%s handle unavailable", name).WithCause(err)
	}
	if p.maxConn > 0 {
		sqlDB.SetMaxOpenConns(p.maxConn)
	}
	if p.maxIdle > 0 {
		sqlDB.SetMaxIdleConns(p.maxIdle)
	}

	logs.Info("open db success", append([]zap.Field{zap.String("dialect", name)}, fields...)...)
	return db, nil
}
