package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	mdtable "github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/richard-senior/podds-web/internal/logger"
	"github.com/richard-senior/podds-web/pkg/podds"
	"github.com/richard-senior/podds-web/pkg/transport"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrBadDate is returned for a date parameter that is not YYYY-MM-DD
var ErrBadDate = errors.New("invalid date")

// Server renders the predictions of a loaded Table over HTTP
type Server struct {
	cfg    *podds.Config
	table  *podds.Table
	dates  []time.Time
	router chi.Router
	pages  *template.Template
	md     *converter.Converter
	now    func() time.Time
}

// page is the data handed to the templates
type page struct {
	Title   string
	Columns []string
	Day     *podds.MatchDay
}

// New builds a Server for table. The distinct dates are computed here,
// so a dataset with unparseable dates fails before anything listens.
func New(cfg *podds.Config, table *podds.Table) (*Server, error) {
	dates, err := podds.ListDistinctDates(table)
	if err != nil {
		return nil, fmt.Errorf("failed to list match dates: %w", err)
	}
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		cfg:   cfg,
		table: table,
		dates: dates,
		pages: pages,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				mdtable.NewTablePlugin(),
			),
		),
		now: time.Now,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(transport.Compress)

	r.Get("/", s.handleIndex)
	r.Get("/matches.md", s.handleMarkdown)
	r.Get("/health", s.handleHealth)

	r.With(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})).Get("/api/matches", s.handleMatches)

	return r
}

// Handler returns the routed http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address until ctx is cancelled or the
// process receives SIGINT/SIGTERM, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Inform("Listening on", s.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down, waiting up to", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// ResolveDate turns a date query parameter into the date to show.
// Empty means today. The result is clamped to the dataset's date range.
func (s *Server) ResolveDate(param string) (time.Time, error) {
	date := podds.Day(s.now())
	if param != "" {
		d, err := time.Parse(podds.DateLayout, param)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w %q, expected YYYY-MM-DD", ErrBadDate, param)
		}
		date = d
	}
	if len(s.dates) > 0 {
		date = podds.ClampDate(date, s.dates[0], s.dates[len(s.dates)-1])
	}
	return date, nil
}

// MatchDay builds the view model for a date query parameter
func (s *Server) MatchDay(param string) (*podds.MatchDay, error) {
	date, err := s.ResolveDate(param)
	if err != nil {
		return nil, err
	}
	return podds.BuildMatchDay(s.table, s.dates, date), nil
}

func (s *Server) render(name string, day *podds.MatchDay) ([]byte, error) {
	var buf bytes.Buffer
	err := s.pages.ExecuteTemplate(&buf, name, page{
		Title:   s.cfg.Title,
		Columns: podds.TableColumns,
		Day:     day,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// HTML renders the full page for day
func (s *Server) HTML(day *podds.MatchDay) ([]byte, error) {
	return s.render("index.html", day)
}

// Markdown renders the title and league tables for day as markdown
func (s *Server) Markdown(day *podds.MatchDay) (string, error) {
	html, err := s.render("matches.html", day)
	if err != nil {
		return "", err
	}
	md, err := s.md.ConvertString(string(html))
	if err != nil {
		return "", fmt.Errorf("failed to convert html to markdown: %w", err)
	}
	return md, nil
}
