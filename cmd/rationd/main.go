package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/avelan/rationd/internal/backup"
	"github.com/avelan/rationd/internal/database"
	"github.com/avelan/rationd/internal/logging"
	"github.com/avelan/rationd/internal/push"
	"github.com/avelan/rationd/internal/server"
)

func main() {
	port := os.Getenv("RATIOND_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("RATIOND_DB_PATH")
	if dbPath == "" {
		dbPath = "rationd.db"
	}

	logger := logging.Setup(os.Getenv("RATIOND_LOG_LEVEL"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	pushCfg := push.Config{
		VAPIDPublicKey:  os.Getenv("RATIOND_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("RATIOND_VAPID_PRIVATE_KEY"),
	}

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("RATIOND_S3_ENDPOINT"),
			Bucket:    os.Getenv("RATIOND_S3_BUCKET"),
			Region:    os.Getenv("RATIOND_S3_REGION"),
			AccessKey: os.Getenv("RATIOND_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("RATIOND_S3_SECRET_KEY"),
		},
		Passphrase:    os.Getenv("RATIOND_BACKUP_PASSPHRASE"),
		ScheduleHour:  envInt("RATIOND_BACKUP_HOUR", 2),
		RetentionDays: envInt("RATIOND_BACKUP_RETENTION_DAYS", 30),
	}

	srv := server.New(db, dbPath, pushCfg, backupCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.BackupManager().Start(ctx)
	defer srv.BackupManager().Stop()

	// Periodic cleanup of expired sessions and stale rate-limit entries
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Debug("session cleanup", "deleted", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("rationd running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
