package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"reel/internal/config"
	"reel/internal/daemon"
	"reel/internal/ipc"
	"reel/internal/ircd"
	"reel/internal/logging"
	"reel/internal/simplepersist"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := simplepersist.Open(cfg, logger)
	if err != nil {
		log.Fatalf("open persistence store: %v", err)
	}

	manager := ircd.NewManager(cfg.IRC.Connections, ircd.NetDialer{}, logger)

	d, err := daemon.New(cfg, store, manager, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(ctx, buildSocketPath(cfg), d, logger)
	if err != nil {
		log.Fatalf("start IPC server: %v", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("reeld shutting down")
}
