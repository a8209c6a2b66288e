package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"zap-chat/go-client/internal/app"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "Path to config.yaml (optional)")
	token := flag.String("token", "", "Bearer token (falls back to ZAP_TOKEN)")
	flag.Parse()
	if *showVersion {
		fmt.Printf("zap-client version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	bearer := *token
	if bearer == "" {
		bearer = os.Getenv("ZAP_TOKEN")
	}
	if bearer == "" {
		log.Fatal("zap-client: no token; pass -token or set ZAP_TOKEN")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := app.New(app.Options{
		ConfigPath: *configPath,
		Token:      bearer,
		Registry:   prometheus.DefaultRegisterer,
	})
	if err != nil {
		log.Fatalf("zap-client failed to initialize: %v", err)
	}

	log.Println("zap-client starting")
	if err := client.Run(ctx); err != nil {
		log.Fatalf("zap-client failed: %v", err)
	}
	log.Println("zap-client stopped")
}
