package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/richard-senior/podds-web/internal/logger"
	"github.com/richard-senior/podds-web/pkg/podds"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	day, ok := s.matchDay(w, r)
	if !ok {
		return
	}
	body, err := s.HTML(day)
	if err != nil {
		logger.Error("Request failed:", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	day, ok := s.matchDay(w, r)
	if !ok {
		return
	}
	md, err := s.Markdown(day)
	if err != nil {
		logger.Error("Request failed:", err)
		http.Error(w, "failed to render markdown", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(md))
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	day, ok := s.matchDay(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"matches": s.table.Len(),
	})
}

// matchDay resolves the request's date and writes a 400 if it is malformed
func (s *Server) matchDay(w http.ResponseWriter, r *http.Request) (*podds.MatchDay, bool) {
	day, err := s.MatchDay(r.URL.Query().Get("date"))
	if errors.Is(err, ErrBadDate) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if err != nil {
		logger.Error("Request failed:", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return day, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", err)
	}
}

// requestLogger logs one line per request through the application logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		msg := fmt.Sprintf("%s %s %d %dB in %s [%s]",
			r.Method, r.URL.RequestURI(), ww.Status(), ww.BytesWritten(),
			time.Since(start).Round(time.Microsecond), chimiddleware.GetReqID(r.Context()))
		switch {
		case ww.Status() >= 500:
			logger.Error(msg)
		case ww.Status() >= 400:
			logger.Warn(msg)
		default:
			logger.Debug(msg)
		}
	})
}
