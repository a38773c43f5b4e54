package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/askoura/todolists/internal/auth"
	"github.com/askoura/todolists/internal/config"
	"github.com/askoura/todolists/internal/middleware"
	"github.com/askoura/todolists/internal/store"
	"github.com/askoura/todolists/internal/todo"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── Database ─────────────────────────────────────────────
	db, err := store.Open(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	// ── Sessions ─────────────────────────────────────────────
	var sessions auth.Store
	if cfg.RedisAddr != "" {
		rdb, err := auth.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rdb.Close()
		sessions = auth.NewRedisStore(rdb)
	} else {
		sessions = auth.NewMemoryStore()
	}

	// ── Handlers ─────────────────────────────────────────────
	rememberTTL := time.Duration(cfg.SessionDays) * 24 * time.Hour
	authHandler := auth.NewHandler(db, sessions, rememberTTL)
	todoHandler := todo.NewHandler(db, db)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithUser(sessions))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", todoHandler.Home)

	// Auth routes
	r.Get("/register", authHandler.RegisterPage)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.With(middleware.RequireAuth).Get("/logout", authHandler.Logout)

	// List routes; reads are owner-scoped inside ViewList
	r.Get("/list/{listID}", todoHandler.ViewList)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/add_list", todoHandler.AddList)
		r.Post("/edit_list/{listID}", todoHandler.EditList)
		r.Post("/delete_list/{listID}", todoHandler.DeleteList)
	})

	// Task routes carry no auth check; see DESIGN.md
	r.Post("/add_task/{listID}", todoHandler.AddTask)
	r.Post("/edit_task/{taskID}", todoHandler.EditTask)
	r.Post("/toggle_task/{taskID}", todoHandler.ToggleTask)
	r.Post("/delete_task/{taskID}", todoHandler.DeleteTask)
	r.Post("/reorder_tasks", todoHandler.ReorderTasks)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
