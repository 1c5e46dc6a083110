package log

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/motemen/go-loghttp"
)

// Logger is the global logger instance
var Logger *slog.Logger

// InitLogger initializes the global logger.
// The level is Debug when NEWSROOM_DEBUG is set.
func InitLogger() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if os.Getenv("NEWSROOM_DEBUG") != "" {
		opts.Level = slog.LevelDebug
	}

	Logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	slog.SetDefault(Logger)
}

func init() {
	InitLogger()
}

// Transport wraps base with request/response debug logging.
func Transport(base http.RoundTripper) http.RoundTripper {
	return &loghttp.Transport{
		Transport: base,
		LogRequest: func(req *http.Request) {
			Debug("HTTP request",
				"method", req.Method,
				"url", req.URL.String(),
			)
		},
		LogResponse: func(resp *http.Response) {
			Debug("HTTP response",
				"method", resp.Request.Method,
				"url", resp.Request.URL.String(),
				"status_code", resp.StatusCode,
			)
		},
	}
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
