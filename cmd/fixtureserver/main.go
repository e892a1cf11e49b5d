package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"EntityFactory/internal/fixtureserver"
	"EntityFactory/internal/shared/logs"
	"EntityFactory/internal/shared/security"
	"EntityFactory/internal/shared/serverconfig"
	transporthttp "EntityFactory/internal/shared/transport/http"
	"EntityFactory/internal/shared/transport/http/middleware"
	"EntityFactory/internal/workbench/factories"
	"EntityFactory/internal/workbench/record"
	"EntityFactory/internal/workbench/storage"
	"EntityFactory/modules/factory"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	cfgName := pflag.StringP("config", "c", "", "配置文件路径，默认向上查找 configs/conf.yml")
	issueFor := pflag.String("issue-token", "", "为指定 subject 签发访问令牌后退出")
	pflag.Parse()

	conf, err := serverconfig.Load(*cfgName, func(c serverconfig.Config, err error) {
		if err != nil {
			logs.Warn("配置热更新失败，继续使用旧配置", zap.Error(err))
			return
		}
		if err := logs.Init("fixtureserver", c.Log); err != nil {
			logs.Warn("按新配置重建日志失败", zap.Error(err))
			return
		}
		logs.Info("配置已热更新", zap.String("log_level", c.Log.Level))
	})
	if err != nil {
		panic(err)
	}
	if err := logs.Init("fixtureserver", conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	logs.Info("conf", zap.Any("conf", conf))

	var issuer *security.Issuer
	if conf.FixtureServer.Secret != "" {
		issuer, err = security.NewIssuer(conf.FixtureServer.Secret, time.Duration(conf.FixtureServer.TokenTTLMin)*time.Minute)
		if err != nil {
			logs.Fatal("create token issuer failed", zap.Error(err))
		}
	}
	if *issueFor != "" {
		if issuer == nil {
			logs.Fatal("fixture_server.secret is empty, cannot issue token")
		}
		token, err := issuer.Award(*issueFor)
		if err != nil {
			logs.Fatal("issue token failed", zap.Error(err))
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, conf, logs.Logger())
	if err != nil {
		logs.Fatal("open persistence failed", zap.String("driver", conf.Persistence.Driver), zap.Error(err))
	}
	defer func() { _ = backend.Close(context.Background()) }()

	set := factories.New(
		factory.WithPersister(backend.UnitOfWork),
		factory.WithFaker(gofakeit.New(conf.Faker.Seed)),
		factory.WithLogger(logs.Kit()),
	)

	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := transporthttp.NewHttpServer(conf.FixtureServer.Addr(), nil, logs.Kit())
	routes := srv.Group()
	if issuer != nil {
		routes.Use(middleware.Auth(issuer, logs.Kit()))
	}
	fixtureserver.New(set.Registry, backend.UnitOfWork, record.NewPresenter(backend.UnitOfWork), logs.Kit(),
		fixtureserver.WithMetrics(fixtureserver.NewMetrics()),
	).Register(routes)

	errCh := make(chan error, 1)
	go func() {
		logs.Info("fixture server started",
			zap.String("addr", conf.FixtureServer.Addr()),
			zap.String("driver", backend.Driver),
			zap.Strings("factories", set.Registry.Names()),
		)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logs.Error("fixture server shutdown failed", zap.Error(err))
	}
}
