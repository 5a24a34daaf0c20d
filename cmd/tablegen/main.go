package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tablegen/infrastructure/audit"
	"tablegen/infrastructure/cache"
	httpserver "tablegen/infrastructure/http"
	"tablegen/infrastructure/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("tablegen: .env not loaded: %v", err)
	}

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "tablegen.db")
	cfg := httpserver.Config{
		ExportFileName:       getenv("TABLEGEN_EXPORT_FILENAME", "table.pdf"),
		AllowSelectionCancel: getbool("TABLEGEN_ALLOW_SELECTION_CANCEL", false),
		GuardBlanks:          getbool("TABLEGEN_GUARD_BLANKS", false),
		WorkspaceIdle:        getduration("TABLEGEN_WORKSPACE_IDLE", 12*time.Hour),
	}

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, os.Getenv("SQLITE_MIGRATIONS_DIR")); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	workspaces := cache.NewWorkspaceCache(cfg.WorkspaceIdle)
	auditSvc := audit.NewService(db)

	server := httpserver.NewServer(addr, cfg, db, workspaces, auditSvc)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("tablegen listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("tablegen: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return parsed
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("tablegen: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return parsed
}
