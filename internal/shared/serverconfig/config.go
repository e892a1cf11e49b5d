package serverconfig

import (
	"fmt"
	"sync"

	"EntityFactory/internal/shared/config"
	"EntityFactory/modules/kit/errx"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var ErrUnknownDriver = errx.NewBiz("CONFIG_UNKNOWN_DRIVER", "")

var (
	mu      sync.RWMutex
	current Config
)

// Load 读取配置并开启热更新。onReload 在每次文件变化后被调用，err 非空表示新配置无效、旧配置继续生效。
func Load(cfgName string, onReload func(Config, error)) (Config, error) {
	path, err := config.Resolve(cfgName)
	if err != nil {
		return Config{}, err
	}

	var c Config
	_, err = config.Load(path, &c, func(v *viper.Viper, _ fsnotify.Event) {
		var next Config
		err := v.Unmarshal(&next)
		if err == nil {
			next.applyDefaults()
			err = next.Validate()
		}
		if err == nil {
			set(next)
		}
		if onReload != nil {
			onReload(Get(), err)
		}
	})
	if err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	set(c)
	return c, nil
}

func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func set(c Config) {
	mu.Lock()
	current = c
	mu.Unlock()
}

func (c Config) Validate() error {
	switch c.Persistence.Driver {
	case DriverMemory, DriverMySQL, DriverPostgres, DriverMongoDB:
		return nil
	default:
		return ErrUnknownDriver.
			WithMsgf("unknown persistence driver %q", c.Persistence.Driver).
			WithData("driver", c.Persistence.Driver)
	}
}

func (c FixtureServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN 形如 user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.Charset)
}
