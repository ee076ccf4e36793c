package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"LotMonitor/internal/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "config.yml", "Path to the YAML configuration file")
	history := flag.Int("history", 0, "Print the last N recorded runs and exit")
	flag.Parse()

	application := app.New(*configPath)

	if *history > 0 {
		application.PrintHistory(*history)
		application.Close()
		return
	}

	// An external interrupt cancels the pass; seen-set persistence and
	// browser teardown still run inside RunPass before it returns.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := application.RunPass(ctx)
	stop()
	application.Close()

	if err != nil {
		log.Printf("Run failed: %v", err)
		os.Exit(1)
	}
}
