package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aguli-tv/aguli-admin/internal/aguli"
	"github.com/aguli-tv/aguli-admin/internal/config"
	"github.com/aguli-tv/aguli-admin/internal/metrics"
	"github.com/aguli-tv/aguli-admin/internal/ratelimit"
	"github.com/aguli-tv/aguli-admin/internal/server"
	"github.com/aguli-tv/aguli-admin/logging"
)

const logFileName = "aguli-admin.log"

type overrides struct {
	listen   string
	apiURL   string
	logDir   string
	logLevel string
}

func main() {
	_ = godotenv.Load(".env")

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		// If a second signal arrives, force exit immediately.
		<-sigCh
		log.Println("second interrupt received, forcing shutdown")
		os.Exit(1)
	}()
	defer func() {
		signal.Stop(sigCh)
		cancel()
	}()

	var o overrides
	flag.StringVar(&o.listen, "listen", "", "address to serve the admin API (defaults to config.json server.addr+port)")
	flag.StringVar(&o.apiURL, "api", "", "Aguli backend base URL (defaults to config.json api.base_url or AGULI_API_URL)")
	flag.StringVar(&o.logDir, "logs", "", "directory for the console log (defaults to config.json logs.dir)")
	flag.StringVar(&o.logLevel, "log-level", "", "minimum log level: debug, info, warn, error")
	configPath := flag.String("config", "config.json", "path to console configuration")
	flag.Parse()

	if err := run(ctx, *configPath, o); err != nil && err != context.Canceled {
		log.Fatalf("aguli-admin: %v", err)
	}
}

func run(ctx context.Context, configPath string, o overrides) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = applyOverrides(cfg, o)
	if err := cfg.Validate(); err != nil {
		return err
	}

	fileWriter, err := logging.NewFileWriter(cfg.Logs.Dir, logFileName, 0, 0)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer fileWriter.Close()
	logger := logging.New("aguli-admin", logging.ParseLevel(cfg.Logs.Level), os.Stdout, fileWriter)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpClient := ratelimit.Client(
		&http.Client{Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second},
		ratelimit.NewLimiter(cfg.API.RequestsPerSecond, cfg.API.Burst),
	)
	client, err := aguli.New(aguli.Options{
		BaseURL:    cfg.API.BaseURL,
		APIKey:     cfg.API.Key,
		Token:      cfg.API.Token,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	logger.Info("general", "starting admin console", map[string]any{
		"api":      cfg.API.BaseURL,
		"log_file": fileWriter.Path(),
	})
	return server.Run(ctx, server.Options{
		Listen:        cfg.Server.Listen(),
		Backend:       client,
		Logger:        logger,
		Metrics:       metrics.MustNew(reg),
		Gatherer:      reg,
		MaxSessions:   cfg.Compose.MaxSessions,
		MaxImageBytes: cfg.Compose.MaxImageBytes,
		LogPath:       fileWriter.Path(),
	})
}

// applyOverrides layers non-empty command-line values over the config file.
func applyOverrides(cfg config.Config, o overrides) config.Config {
	if listen := strings.TrimSpace(o.listen); listen != "" {
		addr, port, ok := strings.Cut(listen, ":")
		if ok {
			cfg.Server = config.ServerConfig{Addr: addr, Port: ":" + port}
		} else {
			cfg.Server = config.ServerConfig{Addr: addr}
		}
	}
	if v := strings.TrimSpace(o.apiURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(o.logDir); v != "" {
		cfg.Logs.Dir = v
	}
	if v := strings.TrimSpace(o.logLevel); v != "" {
		cfg.Logs.Level = v
	}
	return cfg
}
