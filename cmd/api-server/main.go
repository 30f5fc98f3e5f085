package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coxMita/OPD-Vertex-Group7/internal/api"
	"github.com/coxMita/OPD-Vertex-Group7/internal/appointment"
	"github.com/coxMita/OPD-Vertex-Group7/internal/config"
	"github.com/coxMita/OPD-Vertex-Group7/internal/db"
	"github.com/coxMita/OPD-Vertex-Group7/internal/event"
	redisclient "github.com/coxMita/OPD-Vertex-Group7/internal/redis"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s am=%d-%d pm=%d-%d",
		cfg.Env, cfg.HTTPPort, cfg.AMStartHour, cfg.AMEndHour, cfg.PMStartHour, cfg.PMEndHour)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	publisher := event.NewAsyncPublisher(
		event.NewRedisTransport(rdb),
		cfg.EventBuffer,
		func(topic string, err error) {
			log.Printf("event publish failed topic=%s err=%v", topic, err)
		},
	)

	repo := appointment.NewPgRepository(pgPool)
	catalog := appointment.NewCatalog(cfg.AMStartHour, cfg.AMEndHour, cfg.PMStartHour, cfg.PMEndHour)
	svc := appointment.NewService(repo, appointment.NewScheduler(catalog), event.NewEmitter(publisher))

	router := api.NewRouter(api.RouterConfig{
		Service: svc,
		PgPool:  pgPool,
		Redis:   rdb,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case <-rootCtx.Done():
	}

	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := publisher.Close(shutdownCtx); err != nil {
		log.Printf("publisher drain error: %v", err)
	}
}
