package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Ishtiak2/notes-app/handlers"
	"github.com/Ishtiak2/notes-app/initializers"
	"github.com/Ishtiak2/notes-app/middleware"
	"github.com/Ishtiak2/notes-app/pkg/appenv"
	"github.com/Ishtiak2/notes-app/pkg/notify"
	"github.com/Ishtiak2/notes-app/repository"
	"github.com/Ishtiak2/notes-app/websocket"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := initializers.LoadConfig()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	var db *sql.DB
	for i := 0; i < cfg.ConnectRetries; i++ {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in %s...", err, cfg.ConnectBackoff)
		time.Sleep(cfg.ConnectBackoff)
	}
	if err != nil {
		log.Fatal("Could not connect to database: ", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error: ", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error: ", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed: ", err)
	}

	usersRepo := repository.NewUsersRepository(db)
	notesRepo := repository.NewNotesRepository(db).WithCaseSensitiveSearch(cfg.SearchCaseSensitive)

	if appenv.IsProduction() || strings.EqualFold(os.Getenv("GIN_MODE"), "release") {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Structured request ID and JSON access logs
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	// Panic recovery
	r.Use(gin.Recovery())

	// Configure trusted proxies for correct client IP handling in production
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Default to loopback only; override via TRUSTED_PROXIES in production
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORSMiddleware())
	// Apply rate limiting globally after CORS but before routes
	r.Use(middleware.RateLimitMiddleware())

	// WebSocket hub delivering note events to their owner
	hub := websocket.NewHub()
	notifier := &notify.WSNotifier{Hub: hub}

	authHandler := handlers.NewAuthHandler(usersRepo, cfg.JWTSecret)
	notesHandler := handlers.NewNotesHandler(notesRepo).WithNotifier(notifier)
	profileHandler := handlers.NewProfileHandler(usersRepo, notesRepo)

	r.GET("/health", handlers.HealthCheck)

	// Public endpoints with a stricter per-IP rate limit
	authPublic := r.Group("/api/auth", middleware.RateLimitAuthMiddleware())
	authPublic.POST("/register", authHandler.Register)
	authPublic.POST("/login", authHandler.Login)

	ws := r.Group("/", handlers.AuthMiddleware(cfg.JWTSecret))
	ws.GET("/ws", websocket.ServeWS(hub))

	api := r.Group("/api", handlers.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/notes", notesHandler.GetNotes)
		api.GET("/notes/:id", notesHandler.GetNote)
		api.POST("/notes", notesHandler.CreateNote)
		api.PUT("/notes/:id", notesHandler.UpdateNote)
		api.DELETE("/notes/:id", notesHandler.DeleteNote)

		api.GET("/profile", profileHandler.GetProfile)
		api.PUT("/profile", profileHandler.UpdateProfile)
		api.PUT("/profile/password", profileHandler.ChangePassword)
		api.DELETE("/profile", profileHandler.DeleteAccount)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	// Drain in-flight requests on SIGINT/SIGTERM before closing the pool
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
