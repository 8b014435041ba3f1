package main

import (
	"context"
	"log"
	"time"

	"paperlens/internal/activities"
	"paperlens/internal/config"
	"paperlens/internal/storage"
	"paperlens/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	c, err := client.Dial(client.Options{HostPort: cfg.Worker.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Worker.TaskQueue, worker.Options{})
	workflows.Register(w)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.Worker.PostgresURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	a, err := activities.New(cfg, db)
	if err != nil {
		log.Fatal(err)
	}
	activities.Register(w, a)

	log.Printf("paperlens worker listening on %s queue=%s provider=%s fallback=%v",
		cfg.Worker.TemporalAddress, cfg.Worker.TaskQueue, cfg.AI.Provider, cfg.HasFallback())
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal(err)
	}
}
