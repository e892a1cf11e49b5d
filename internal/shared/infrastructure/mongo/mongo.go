package mongo

import (
	"context"
	"time"

	"EntityFactory/internal/shared/serverconfig"
	"EntityFactory/modules/kit/errx"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

var ErrEmptyURI = errx.NewBiz("MONGODB_EMPTY_URI", "mongodb uri is empty")

func Timeout(cfg serverconfig.MongoDBConfig) time.Duration {
	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return timeout
}

// Open 连接并 Ping 一次，失败时断开连接。
func Open(ctx context.Context, cfg serverconfig.MongoDBConfig, l *zap.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, ErrEmptyURI
	}
	if l == nil {
		l = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, Timeout(cfg))
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errx.ErrUnavailable.WithMsg("connect mongodb failed").WithCause(err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errx.ErrUnavailable.WithMsg("ping mongodb failed").WithCause(err)
	}

	l.Info("open mongodb success",
		zap.String("database", cfg.Database),
	)
	return client, nil
}
