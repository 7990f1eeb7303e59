package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"cookbook/internal/api"
	"cookbook/internal/config"
	"cookbook/internal/media"
	"cookbook/internal/models"
)

const (
	allowRemoteEnvKey = "COOKBOOK_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 60 * time.Second
	writeTimeout      = 90 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// RecipeService is the facade the UI drives.
type RecipeService interface {
	CreateRecipe(ctx context.Context, req api.CreateRequest) (string, error)
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	BeginEdit(ctx context.Context, id string) (*api.EditSession, error)
	SubmitEdit(ctx context.Context, s *api.EditSession, form api.EditForm) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, pk string) (string, error)
	SearchRecipes(ctx context.Context, q string) api.SearchResult
}

// Options tunes upload limits and search throttling.
type Options struct {
	MaxUploadBytes     int64
	MultipartMaxMemory int64
	SearchRate         float64
	SearchBurst        int
}

// OptionsFromConfig reads Options from the upload and ui config sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxUploadBytes:     cfg.Upload.MaxUploadBytes,
		MultipartMaxMemory: cfg.Upload.MultipartMaxMemory,
		SearchRate:         cfg.UI.SearchRate,
		SearchBurst:        cfg.UI.SearchBurst,
	}
}

// Server renders the recipe UI.
type Server struct {
	addr          string
	recipes       RecipeService
	resolver      media.Resolver
	opts          Options
	searchLimiter *rate.Limiter
	pages         map[string]*template.Template
	logger        *slog.Logger
}

// New creates a new server instance.
func New(addr string, recipes RecipeService, resolver media.Resolver, opts Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = config.DefaultUploadMaxBytes
	}
	if opts.MultipartMaxMemory <= 0 {
		opts.MultipartMaxMemory = config.DefaultUploadMultipartMem
	}
	if opts.SearchRate <= 0 {
		opts.SearchRate = config.DefaultSearchRate
	}
	if opts.SearchBurst <= 0 {
		opts.SearchBurst = config.DefaultSearchBurst
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		addr:          addr,
		recipes:       recipes,
		resolver:      resolver,
		opts:          opts,
		searchLimiter: rate.NewLimiter(rate.Limit(opts.SearchRate), opts.SearchBurst),
		pages:         pages,
		logger:        logger,
	}, nil
}

// Handler returns the routed UI handler.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log().Info("starting server", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log().Info("shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	s.log().Info("server stopped gracefully")
	return nil
}

// ListenAddr converts a configured UI address or URL into a listen address.
func ListenAddr(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("ui address is required")
	}
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(raw)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return raw, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
