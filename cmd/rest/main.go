package main

import (
	"context"
	"log"

	"ship-computer-be/internal/bootstrap"
	"ship-computer-be/internal/config"
	"ship-computer-be/internal/server"
	"ship-computer-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless TRACING_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.App)
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 4. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Broadcast Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	container.EventService.Start(context.Background())

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
