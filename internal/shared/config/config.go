// Package config 负责定位并读取 yml 配置，支持 FACTORY_ 前缀的环境变量覆盖和热更新。
package config

import (
	"os"
	"path/filepath"

	"EntityFactory/modules/kit/errx"
)

const (
	defaultConfigRelPath = "configs/conf.yml"
	envPrefix            = "FACTORY"
)

var ErrConfigNotFound = errx.NewSys("CONFIG_NOT_FOUND", "config file not found")

// Resolve 返回最终使用的配置文件路径。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", errx.ErrInternal.WithCause(err)
	}
	if cfgName != "" {
		path := cfgName
		if !filepath.IsAbs(path) {
			path = filepath.Join(curDir, cfgName)
		}
		if !fileExist(path) {
			return "", ErrConfigNotFound.WithData("path", path)
		}
		return path, nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound.
				WithMsgf("searched %s upward from %s", defaultConfigRelPath, startDir).
				WithData("start_dir", startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
