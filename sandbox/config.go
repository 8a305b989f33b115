package sandbox

import (
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/lumen/core"
)

type ValidationConfig struct {
	Driver bool `toml:"driver"`
	GPU    bool `toml:"gpu"`
}

type Config struct {
	ApplicationName string           `toml:"application_name"`
	Backend         string           `toml:"backend"`
	LogLevel        string           `toml:"log_level"`
	FrameCount      int              `toml:"frame_count"`
	Validation      ValidationConfig `toml:"validation"`
}

func DefaultConfig() *Config {
	return &Config{
		ApplicationName: "Lumen Sandbox",
		Backend:         "noop",
		LogLevel:        "info",
		FrameCount:      100,
		Validation: ValidationConfig{
			Driver: true,
			GPU:    false,
		},
	}
}

// LoadConfig reads the TOML file at path on top of the defaults. A missing
// file is not an error; the defaults are returned as-is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigWatcher re-reads the config file when it changes on disk and
// applies the settings that are safe to change at runtime.
type ConfigWatcher struct {
	path     string
	fsnotify *fsnotify.Watcher
	done     chan struct{}
}

func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(path); err != nil {
		fsWatch.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:     path,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	go cw.start()
	return cw, nil
}

func (cw *ConfigWatcher) start() {
	for {
		select {
		case e := <-cw.fsnotify.Events:
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				cw.reload()
			}
			// Some editors replace the file on save, which drops the watch.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				cw.fsnotify.Add(cw.path)
			}

		case e := <-cw.fsnotify.Errors:
			core.LogError(e.Error())

		case <-cw.done:
			cw.fsnotify.Close()
			return
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		core.LogWarn("config reload failed: %s", err)
		return
	}
	core.LogInfo("config reloaded, log level is now %s", cfg.LogLevel)
	core.SetLevel(cfg.LogLevel)
}

func (cw *ConfigWatcher) Close() {
	close(cw.done)
}
