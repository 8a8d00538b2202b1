// shopdesk-workshop-service
//
// Job workflow engine and board for the shop-management backend.
// Exposes a REST API used by the Gateway to implement:
//   - the drag-and-drop board (lanes, capacity-limited In Bay)
//   - moveJob(jobId, newStatus) — validated state machine transitions
//   - job intake and bay assignment
//   - appointment booking and reminder sweeps
//
// Publishes EVENT_JOB_MOVED and EVENT_APPOINTMENT_REMINDER to Redis for
// Gateway SSE forward and notification workers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"shopdesk/workshop-service/internal/appointments"
	"shopdesk/workshop-service/internal/board"
	"shopdesk/workshop-service/internal/config"
	"shopdesk/workshop-service/internal/db"
	"shopdesk/workshop-service/internal/events"
	"shopdesk/workshop-service/internal/scheduler"
	"shopdesk/workshop-service/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[workshop-service] Config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[workshop-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[workshop-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[workshop-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[workshop-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[workshop-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[workshop-service] Redis connected ✓")

	// ── Wiring ───────────────────────────────────────────────────────────────
	pg := store.New(pool)
	pub := events.NewRedisPublisher(rdb)

	ctrl := board.NewController(pg, pub, board.DefaultLanes(cfg.BayCount))
	apptSvc := appointments.NewService(pg, pub)
	sched := scheduler.New(apptSvc, cfg.SweepIntervalMin, cfg.ReminderWindowMin)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	board.NewHandler(pg, ctrl).RegisterRoutes(mux)
	appointments.NewHandler(apptSvc).RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      c.Handler(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// ── Run ──────────────────────────────────────────────────────────────────
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[workshop-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("[workshop-service] v%s listening on :%s (bays: %d)", version, cfg.Port, cfg.BayCount)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Println("[workshop-service] Shutting down…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("[workshop-service] Shutdown error: %v", err)
	}
	log.Println("[workshop-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "workshop-service",
		"version": version,
	})
}
