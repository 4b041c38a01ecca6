package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

type BrotliConfig struct {
	Quality   int
	MinLength int
	// Types lists the media types worth compressing.
	Types []string
}

var DefaultBrotliConfig = BrotliConfig{
	Quality:   brotli.DefaultCompression,
	MinLength: 1024,
	Types:     []string{"text/html", "text/css", "text/plain", "application/javascript", "application/json", "image/svg+xml"},
}

// brotliWriter holds the body back until it knows whether compression pays:
// the body must reach minLength and carry a compressible type.
type brotliWriter struct {
	gin.ResponseWriter
	cfg     *BrotliConfig
	writer  *brotli.Writer
	buf     []byte
	decided bool
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	if bw.decided {
		if bw.writer != nil {
			return bw.writer.Write(data)
		}
		return bw.ResponseWriter.Write(data)
	}

	bw.buf = append(bw.buf, data...)
	if len(bw.buf) < bw.cfg.MinLength {
		return len(data), nil
	}

	bw.decided = true
	if bw.compressible() {
		h := bw.ResponseWriter.Header()
		h.Set("Content-Encoding", "br")
		h.Del("Content-Length")
		bw.writer = brotli.NewWriterLevel(bw.ResponseWriter, bw.cfg.Quality)
		if _, err := bw.writer.Write(bw.buf); err != nil {
			return 0, err
		}
	} else if _, err := bw.ResponseWriter.Write(bw.buf); err != nil {
		return 0, err
	}
	bw.buf = nil
	return len(data), nil
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.Write([]byte(s))
}

func (bw *brotliWriter) compressible() bool {
	if bw.ResponseWriter.Header().Get("Content-Encoding") != "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(bw.ResponseWriter.Header().Get("Content-Type"))
	if err != nil {
		return false
	}
	for _, t := range bw.cfg.Types {
		if strings.EqualFold(mt, t) {
			return true
		}
	}
	return false
}

// finish writes whatever is still buffered and closes the compressor.
func (bw *brotliWriter) finish() error {
	if bw.writer != nil {
		return bw.writer.Close()
	}
	if len(bw.buf) == 0 {
		return nil
	}
	_, err := bw.ResponseWriter.Write(bw.buf)
	bw.buf = nil
	return err
}

func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(DefaultBrotliConfig)
}

func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < 0 || cfg.Quality > 11 {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}
	if len(cfg.Types) == 0 {
		cfg.Types = DefaultBrotliConfig.Types
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		bw := &brotliWriter{ResponseWriter: c.Writer, cfg: &cfg}
		defer func() {
			if err := bw.finish(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Writer = bw
		c.Next()
	}
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
