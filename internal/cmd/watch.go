package cmd

import (
	"github.com/Iron-Ham/whacaconsole/internal/config"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// watchConfig reloads the config file on change and applies it to rt.
// It does nothing when no config file is in use.
func watchConfig(rt *runtime) {
	path := viper.ConfigFileUsed()
	if path == "" {
		return
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		reloadConfig(rt, e)
	})
	viper.WatchConfig()
	rt.logger.Info("watching config file", "path", path)
}

func reloadConfig(rt *runtime, e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	cfg, err := config.Load()
	if err != nil {
		rt.logger.Warn("config reload rejected", "path", e.Name, "error", err)
		return
	}
	rt.apply(cfg)
	rt.logger.Info("config reloaded", "path", e.Name)
}
