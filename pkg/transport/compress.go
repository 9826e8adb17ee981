package transport

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/richard-senior/podds-web/internal/logger"
)

// Encodings we can produce, most preferred first
var supportedEncodings = []string{"br", "gzip", "deflate"}

// NegotiateEncoding picks a content coding from an Accept-Encoding header.
// Codings with q=0 are refused, ties go to the server's preference order.
// Returns "" when nothing acceptable is on offer.
func NegotiateEncoding(acceptEncoding string) string {
	weights := map[string]float64{}
	for _, part := range strings.Split(acceptEncoding, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, params, _ := strings.Cut(part, ";")
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				q = f
			}
		}
		weights[strings.ToLower(strings.TrimSpace(name))] = q
	}

	best, bestQ := "", 0.0
	for _, enc := range supportedEncodings {
		q, ok := weights[enc]
		if !ok {
			q, ok = weights["*"]
		}
		if ok && q > bestQ {
			best, bestQ = enc, q
		}
	}
	return best
}

func newEncoder(encoding string, w io.Writer) (io.WriteCloser, error) {
	switch encoding {
	case "br":
		return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
	case "gzip":
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case "deflate":
		return flate.NewWriter(w, flate.DefaultCompression)
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// compressWriter encodes the body once the handler starts writing
type compressWriter struct {
	http.ResponseWriter
	encoding    string
	encoder     io.WriteCloser
	wroteHeader bool
}

func (cw *compressWriter) WriteHeader(status int) {
	if cw.wroteHeader {
		return
	}
	cw.wroteHeader = true
	h := cw.Header()
	if status != http.StatusNoContent && status != http.StatusNotModified && h.Get("Content-Encoding") == "" {
		h.Set("Content-Encoding", cw.encoding)
		h.Del("Content-Length")
		enc, err := newEncoder(cw.encoding, cw.ResponseWriter)
		if err != nil {
			logger.Error("Failed to create encoder", err)
			h.Del("Content-Encoding")
		} else {
			cw.encoder = enc
		}
	}
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	if cw.encoder == nil {
		return cw.ResponseWriter.Write(b)
	}
	return cw.encoder.Write(b)
}

func (cw *compressWriter) Close() error {
	if cw.encoder == nil {
		return nil
	}
	return cw.encoder.Close()
}

// Compress is middleware that brotli, gzip or deflate encodes responses
// according to the request's Accept-Encoding
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		encoding := NegotiateEncoding(r.Header.Get("Accept-Encoding"))
		if encoding == "" || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		cw := &compressWriter{ResponseWriter: w, encoding: encoding}
		defer func() {
			if err := cw.Close(); err != nil {
				logger.Warn("Failed to finish compressed response", err)
			}
		}()
		next.ServeHTTP(cw, r)
	})
}
