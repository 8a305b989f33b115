/*
Sandbox application that walks the hal package through a full
instance/device/queue lifecycle using the configured backend.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/lumen/core"
	"github.com/spaghettifunk/lumen/sandbox"
)

func main() {
	configPath := flag.String("config", "sandbox.toml", "path to the sandbox config file")
	flag.Parse()

	cfg, err := sandbox.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}
	core.SetLevel(cfg.LogLevel)

	watcher, err := sandbox.NewConfigWatcher(*configPath)
	if err != nil {
		core.LogWarn("config watching disabled: %s", err)
	} else {
		defer watcher.Close()
	}

	sb := sandbox.New(cfg)
	if err := sb.Initialize(); err != nil {
		sb.Shutdown()
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		sb.Shutdown()
	}()

	if err := sb.Run(); err != nil {
		sb.Shutdown()
		core.LogFatal(err.Error())
	}
	sb.Shutdown()
}
