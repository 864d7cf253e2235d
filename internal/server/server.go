// Package server exposes the admin console's JSON API: compose sessions for
// Explore posts plus thin pass-throughs to the Aguli backend resources.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aguli-tv/aguli-admin/internal/aguli"
	"github.com/aguli-tv/aguli-admin/internal/explore"
	"github.com/aguli-tv/aguli-admin/internal/metrics"
	"github.com/aguli-tv/aguli-admin/logging"
)

const (
	defaultListen        = "127.0.0.1:8890"
	defaultMaxSessions   = 256
	defaultMaxImageBytes = 10 << 20
)

// Backend is the subset of the Aguli client the console calls.
type Backend interface {
	explore.Submitter
	ListExplore(ctx context.Context) ([]aguli.ExplorePost, error)
	DeleteExplore(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]aguli.Category, error)
	CreateCategory(ctx context.Context, in aguli.CategoryInput) error
	UpdateCategory(ctx context.Context, id string, in aguli.CategoryInput) error
	DeleteCategory(ctx context.Context, id string) error

	ListAds(ctx context.Context) ([]aguli.Ad, error)
	CreateAd(ctx context.Context, in aguli.AdInput) error
	UpdateAd(ctx context.Context, current aguli.Ad, changes aguli.AdInput) error
	DeleteAd(ctx context.Context, id string) error

	ListCitizenPosts(ctx context.Context) ([]aguli.CitizenPost, error)
	DeleteCitizenPost(ctx context.Context, id string) error

	ListChannels(ctx context.Context) ([]aguli.Channel, error)
	CreateChannel(ctx context.Context, in aguli.ChannelInput) error
	UpdateChannel(ctx context.Context, id string, in aguli.ChannelInput) error
	DeleteChannel(ctx context.Context, id string) error

	ListVideos(ctx context.Context) ([]aguli.Video, error)
	GetVideo(ctx context.Context, id string) (aguli.Video, error)
	CreateVideo(ctx context.Context, in aguli.VideoInput) error
	UpdateVideo(ctx context.Context, id string, in aguli.VideoInput) error
	DeleteVideo(ctx context.Context, id string) error

	SendNotification(ctx context.Context, n aguli.Notification) error
}

// Options configures the admin HTTP server.
type Options struct {
	Listen  string
	Backend Backend
	Logger  *logging.Logger
	// Metrics records activity; Gatherer backs /metrics. Both may be nil.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// MaxSessions bounds the compose sessions kept in memory; the least
	// recently used session is discarded when the bound is reached.
	MaxSessions   int
	MaxImageBytes int64
	// LogPath is the console log file served by /api/logs.
	LogPath string
}

// Server holds the handlers' shared state.
type Server struct {
	backend       Backend
	sessions      *sessionStore
	logger        *logging.Logger
	metrics       *metrics.Metrics
	gatherer      prometheus.Gatherer
	maxImageBytes int64
	logPath       string
}

// New validates opts and builds a Server.
func New(opts Options) (*Server, error) {
	if opts.Backend == nil {
		return nil, errors.New("server: backend is required")
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = defaultMaxImageBytes
	}
	sessions, err := newSessionStore(opts.MaxSessions, opts.Logger, opts.Metrics)
	if err != nil {
		return nil, fmt.Errorf("server: session store: %w", err)
	}
	return &Server{
		backend:       opts.Backend,
		sessions:      sessions,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		gatherer:      opts.Gatherer,
		maxImageBytes: opts.MaxImageBytes,
		logPath:       opts.LogPath,
	}, nil
}

// Handler returns the routed API wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/compose", s.handleComposeOpen)
	mux.HandleFunc("GET /api/compose/{id}", s.handleComposeGet)
	mux.HandleFunc("PATCH /api/compose/{id}", s.handleComposeUpdate)
	mux.HandleFunc("DELETE /api/compose/{id}", s.handleComposeDiscard)
	mux.HandleFunc("POST /api/compose/{id}/images", s.handleComposeImages)
	mux.HandleFunc("POST /api/compose/{id}/events", s.handleComposeEvent)
	mux.HandleFunc("POST /api/compose/{id}/submit", s.handleComposeSubmit)

	mux.HandleFunc("GET /api/explore", s.handleExploreList)
	mux.HandleFunc("DELETE /api/explore/{id}", s.handleExploreDelete)

	mux.HandleFunc("GET /api/categories", s.handleCategoryList)
	mux.HandleFunc("POST /api/categories", s.handleCategoryCreate)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleCategoryUpdate)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleCategoryDelete)

	mux.HandleFunc("GET /api/ads", s.handleAdList)
	mux.HandleFunc("POST /api/ads", s.handleAdCreate)
	mux.HandleFunc("PUT /api/ads/{id}", s.handleAdUpdate)
	mux.HandleFunc("DELETE /api/ads/{id}", s.handleAdDelete)

	mux.HandleFunc("GET /api/citizen", s.handleCitizenList)
	mux.HandleFunc("DELETE /api/citizen/{id}", s.handleCitizenDelete)

	mux.HandleFunc("GET /api/livetv", s.handleChannelList)
	mux.HandleFunc("POST /api/livetv", s.handleChannelCreate)
	mux.HandleFunc("PUT /api/livetv/{id}", s.handleChannelUpdate)
	mux.HandleFunc("DELETE /api/livetv/{id}", s.handleChannelDelete)

	mux.HandleFunc("GET /api/videos", s.handleVideoList)
	mux.HandleFunc("POST /api/videos", s.handleVideoCreate)
	mux.HandleFunc("GET /api/videos/{id}", s.handleVideoGet)
	mux.HandleFunc("PUT /api/videos/{id}", s.handleVideoUpdate)
	mux.HandleFunc("DELETE /api/videos/{id}", s.handleVideoDelete)

	mux.HandleFunc("POST /api/notifications", s.handleNotificationSend)

	mux.HandleFunc("GET /api/logs", s.handleLogs)
	mux.Handle("GET /metrics", metrics.Handler(s.gatherer))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})

	return logging.NewHTTPLogger(s.logger).Middleware(mux)
}

// Run starts the admin HTTP server and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context, opts Options) error {
	srv, err := New(opts)
	if err != nil {
		return err
	}
	listen := opts.Listen
	if listen == "" {
		listen = defaultListen
	}

	server := &http.Server{
		Addr:              listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	srv.logger.Info("general", "serving admin console", map[string]any{"listen": "http://" + listen})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		srv.sessions.purge()
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}
