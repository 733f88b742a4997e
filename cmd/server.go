package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"careers-portal/internal/api"
	"careers-portal/internal/draft"
	"careers-portal/internal/files"
	"careers-portal/internal/jobs"
	"careers-portal/internal/notifier"
	"careers-portal/internal/report"
	"careers-portal/internal/scheduler"
	"careers-portal/internal/storage"
	"careers-portal/internal/wizard"
)

// AppConfig 应用配置。
type AppConfig struct {
	Server   ServerConfig         `yaml:"server"`
	Database DatabaseConfig       `yaml:"database"`
	Files    files.Config         `yaml:"files"`
	Email    notifier.EmailConfig `yaml:"email"`
	Jobs     jobs.Config          `yaml:"jobs"`
	Sweeper  scheduler.Config     `yaml:"sweeper"`
	API      api.Config           `yaml:"api"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Printf("load config error: %v", err)
		return
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = "portal.db"
	}

	store, err := storage.NewStore(dbPath)
	if err != nil {
		log.Printf("init store error: %v", err)
		return
	}
	defer store.Close()

	client := &http.Client{Timeout: 15 * time.Second}
	fileStore := files.NewStore(cfg.Files, client)
	drafts := draft.NewStore(store, nil)
	notif := buildNotifier(cfg.Email)
	wiz := wizard.NewController(store, drafts, store, notif, nil)
	jobSvc := jobs.NewService(store, cfg.Jobs)
	exporter := report.NewExporter(fileStore, nil)
	sweep := scheduler.NewSweeper(store, cfg.Sweeper)

	handler := api.NewHandler(wiz, jobSvc, fileStore, store, store, exporter, sweep, cfg.API)

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{Addr: addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := sweep.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("sweeper stopped: %v", err)
		}
	}()

	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func loadConfig() (AppConfig, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func buildNotifier(cfg notifier.EmailConfig) wizard.Notifier {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" || len(cfg.To) == 0 {
		log.Printf("email notifier disabled: missing host/port/from/to, logging submissions instead")
		return notifier.NewLogNotifier(nil)
	}
	return notifier.NewEmailNotifier(cfg, nil)
}
