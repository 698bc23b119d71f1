// ABOUTME: Entry point for the emberchat backend server
// ABOUTME: Subcommands for serving, config scaffolding, API key setup, and health checks

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/hearthside/emberchat/internal/auth"
	"github.com/hearthside/emberchat/internal/blob"
	"github.com/hearthside/emberchat/internal/config"
	"github.com/hearthside/emberchat/internal/gemini"
	"github.com/hearthside/emberchat/internal/server"
	"github.com/hearthside/emberchat/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                _                    _           _
  ___ _ __ ___ | |__   ___ _ __ ___| |__   __ _| |_
 / _ \ '_ ' _ \| '_ \ / _ \ '__/ __| '_ \ / _' | __|
|  __/ | | | | | |_) |  __/ | | (__| | | | (_| | |_
 \___|_| |_| |_|_.__/ \___|_|  \___|_| |_|\__,_|\__|
`

// getConfigPath returns the path to the config file.
// Priority: EMBERCHAT_CONFIG env var > XDG_CONFIG_HOME/emberchat/config.yaml > ~/.config/emberchat/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("EMBERCHAT_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "emberchat", "config.yaml")
}

// getDataPath returns the path to the emberchat data directory.
// Priority: XDG_DATA_HOME/emberchat > ~/.local/share/emberchat
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "emberchat")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: emberchat <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve            Start the backend server")
		fmt.Println("  init             Create a starter config file")
		fmt.Println("  set-key VALUE    Store the model API key in settings")
		fmt.Println("  health           Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "set-key":
		err = runSetKey(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	green.Print("    ▶ ")
	fmt.Printf("Model:     %s\n", cfg.Model.Name)
	if cfg.BlobEnabled() {
		green.Print("    ▶ ")
		fmt.Printf("Blobs:     %s/%s\n", cfg.Blob.Endpoint, cfg.Blob.Bucket)
	} else {
		yellow.Print("    ▶ ")
		fmt.Println("Blobs:     in-memory (attachments are not durable)")
	}
	fmt.Println()

	logger.Info("starting emberchat",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"model", cfg.Model.Name,
	)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	var blobs blob.Store
	if cfg.BlobEnabled() {
		blobs, err = blob.NewS3Store(ctx, blob.S3Config{
			Endpoint:        cfg.Blob.Endpoint,
			Region:          cfg.Blob.Region,
			Bucket:          cfg.Blob.Bucket,
			AccessKeyID:     cfg.Blob.AccessKeyID,
			SecretAccessKey: cfg.Blob.SecretAccessKey,
		})
		if err != nil {
			return fmt.Errorf("initializing blob store: %w", err)
		}
	} else {
		logger.Warn("no blob storage configured, attachments are held in memory")
		blobs = blob.NewMemoryStore()
	}

	generator := gemini.NewClient(logger)
	login := auth.NewService(st, cfg.Auth.MasterPassword, cfg.Auth.SessionTTL, logger)

	srv := server.New(st, blobs, generator, login, server.Config{
		Model:        cfg.Model.Name,
		HistoryLimit: cfg.Model.HistoryLimit,
	}, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	// Handler-level attrs first (from WithAttrs), then record attrs
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// runSetKey stores the model API key directly in the settings table so
// the server can be provisioned without going through the HTTP API.
func runSetKey(ctx context.Context) error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: emberchat set-key VALUE")
	}
	value := strings.TrimSpace(os.Args[2])
	if value == "" {
		return fmt.Errorf("key value cannot be empty")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	if err := st.SetSetting(ctx, server.SettingGeminiAPIKey, value); err != nil {
		return fmt.Errorf("storing key: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Stored %s\n", server.SettingGeminiAPIKey)
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/healthz", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

// runInit writes a starter config file with the standard paths filled in.
func runInit() error {
	configPath := getConfigPath()
	dataPath := getDataPath()
	dbPath := filepath.Join(dataPath, "emberchat.db")

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists: %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	configContent := fmt.Sprintf(`# emberchat configuration
# Generated by emberchat init

server:
  http_addr: "localhost:8080"

database:
  path: "%s"

auth:
  master_password: "${EMBERCHAT_PASSWORD}"
  session_ttl: "168h"

# Uncomment to store attachments in R2 or any S3-compatible bucket.
# blob:
#   endpoint: "https://<account>.r2.cloudflarestorage.com"
#   region: "auto"
#   bucket: "emberchat"
#   access_key_id: "${R2_ACCESS_KEY_ID}"
#   secret_access_key: "${R2_SECRET_ACCESS_KEY}"

model:
  name: "gemini-2.5-flash"
  history_limit: 40

logging:
  level: "info"
  format: "text"
`, dbPath)

	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created config: %s\n", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  export EMBERCHAT_PASSWORD=...   # set the master password")
	fmt.Println("  emberchat set-key YOUR_KEY      # store the model API key")
	fmt.Println("  emberchat serve                 # start the server")

	return nil
}
