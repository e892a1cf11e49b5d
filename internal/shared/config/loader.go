package config

import (
	"strings"

	"EntityFactory/modules/kit/errx"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var ErrConfigInvalid = errx.NewSys("CONFIG_INVALID", "config file cannot be decoded")

// Load 把 configPath 读入 out。onChange 非空时开启文件监听，文件变化后回调。
func Load(configPath string, out any, onChange func(v *viper.Viper, e fsnotify.Event)) (*viper.Viper, error) {
	if !fileExist(configPath) {
		return nil, ErrConfigNotFound.WithData("path", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, ErrConfigInvalid.WithData("path", configPath).WithCause(err)
	}
	if err := v.Unmarshal(out); err != nil {
		return nil, ErrConfigInvalid.WithData("path", configPath).WithCause(err)
	}

	if onChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			onChange(v, e)
		})
		v.WatchConfig()
	}
	return v, nil
}
