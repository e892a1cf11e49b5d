// seeder 按配置的持久化后端写入示例数据集。
package main

import (
	"context"
	"fmt"
	"os"

	"EntityFactory/internal/shared/logs"
	"EntityFactory/internal/shared/serverconfig"
	"EntityFactory/internal/workbench/factories"
	"EntityFactory/internal/workbench/storage"
	"EntityFactory/modules/factory"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	cfgName := pflag.StringP("config", "c", "", "配置文件路径，默认向上查找 configs/conf.yml")
	userOnly := pflag.Bool("user-only", false, "只写入 Test User")
	format := pflag.StringP("format", "f", "json", "报告格式：json/yaml")
	pflag.Parse()

	if err := run(*cfgName, *userOnly, *format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgName string, userOnly bool, format string) error {
	conf, err := serverconfig.Load(cfgName, nil)
	if err != nil {
		return err
	}
	if err := logs.Init("seeder", conf.Log); err != nil {
		return err
	}
	defer func() { _ = logs.Sync() }()

	ctx := context.Background()
	backend, err := storage.Open(ctx, conf, logs.Logger())
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close(ctx) }()

	set := factories.New(
		factory.WithPersister(backend.UnitOfWork),
		factory.WithFaker(gofakeit.New(conf.Faker.Seed)),
		factory.WithLogger(logs.Kit()),
	)

	report := factories.Report{}
	if userOnly {
		if _, err := factories.SeedUser(ctx, set); err != nil {
			return err
		}
		report.Users = 1
	} else if report, err = factories.Seed(ctx, set); err != nil {
		return err
	}
	logs.Info("seed finished", zap.String("driver", backend.Driver), zap.Any("report", report))

	out, err := render(report, format)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func render(report factories.Report, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(report)
	case "json", "":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
