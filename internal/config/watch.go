package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch re-reads the YAML file at path every time it changes and hands the
// decoded config to fn. A file that fails to decode is passed to onErr and
// the previous config stays in effect. Watch returns once the watcher is
// installed; notifications arrive on viper's goroutine.
func Watch(path string, fn func(*Config), onErr func(error)) error {
	if path == "" {
		return fmt.Errorf("watch: no config file path")
	}
	v, err := newViper(path)
	if err != nil {
		return err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := reload(v)
		if err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		fn(cfg)
	})
	v.WatchConfig()
	return nil
}

func reload(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return decode(v)
}
