package main

import (
	"context"
	"log"
	"time"

	"github.com/Palpatine0/TalkThrough/internal/bootstrap"
	"github.com/Palpatine0/TalkThrough/internal/config"
	"github.com/Palpatine0/TalkThrough/internal/server"
	"github.com/Palpatine0/TalkThrough/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 4. Start Background Services
	if err := container.MetricsService.Consume(context.Background()); err != nil {
		log.Printf("Background Metrics Consumer Error: %v", err)
	}

	go func() {
		ticker := time.NewTicker(cfg.Session.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if removed := container.SessionRepo.SweepExpired(cfg.Session.MaxIdle); removed > 0 {
				container.Logger.Info("sweeper", "Expired sessions removed", map[string]interface{}{
					"count": removed,
				})
			}
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
