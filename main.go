package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/trainbot/internal/bot"
	"github.com/example/trainbot/internal/database"
	"github.com/example/trainbot/internal/quiz"
	"github.com/example/trainbot/internal/scheduler"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env is optional, real deployments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	config, err := bot.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := newSessionStore(config)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	b, err := bot.New(config, store)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if config.SchedulerEnabled {
		sweep := scheduler.New(store, config.SessionMaxIdle, config.SweepInterval)
		sweep.Start()
		defer sweep.Stop()
	}

	// Cancel the context on SIGINT/SIGTERM so the update loop drains
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
	log.Println("Bot stopped successfully")
}

// newSessionStore picks the quiz session store: Redis when REDIS_URL
// is set, an in-process store otherwise. With Redis, sessions expire
// through key TTLs and survive a restart.
func newSessionStore(config *bot.BotConfig) (quiz.Store, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return quiz.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	log.Println("Using Redis session store")
	return quiz.NewRedisStore(redis.NewClient(opts), config.SessionMaxIdle), nil
}
