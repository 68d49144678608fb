package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/confhub/conference-api/internal/config"
	"github.com/confhub/conference-api/internal/notifications"
)

func main() {
	cfg := config.Load()

	mailer := notifications.NewMailer(cfg)

	worker, err := notifications.NewWorker(cfg.RabbitURL, cfg.IssueQueue, mailer, cfg.AdminEmail)
	if err != nil {
		log.Fatalf("Failed to connect to broker: %v", err)
	}
	defer worker.Close()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down")
		worker.Close()
	}()

	log.Printf("Issue worker consuming from %s", cfg.IssueQueue)
	if err := worker.Run(); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}
