package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hopskip/cmd/sweeper/jobs"
	"hopskip/internal/config"
	"hopskip/internal/database"
	"hopskip/internal/lifecycle"
	"hopskip/internal/logger"
	"hopskip/internal/messaging"
	"hopskip/internal/policy"
	"hopskip/internal/repository"
)

func main() {
	log.Println("Starting sweeper service...")

	cfg := config.Load()
	cfg.NATS.ClientID = "hopskip-sweeper"

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	machine := lifecycle.NewMachine(policy.NewEngine(cfg.Policy))

	job := jobs.NewCompletionJob(bookingRepo, machine, natsClient)
	job.Start(context.Background())

	log.Println("Sweeper service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down sweeper service...")

	job.Stop()

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}
	if err := db.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}

	log.Println("Sweeper service stopped")
}
