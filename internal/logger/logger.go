package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "canteenpulse"

var (
	base       atomic.Pointer[zerolog.Logger]
	formatOnce sync.Once
)

// Options configures the global logger.
type Options struct {
	Level  string    // debug|info|warn|error (default: info)
	Pretty bool      // console writer instead of JSON
	Out    io.Writer // defaults to os.Stdout
}

// Init configures the global JSON logger from the given options.
// Every entry carries service=canteenpulse and a timestamp.
// It is safe to call while other goroutines are logging.
func Init(opts Options) {
	base.Store(newLogger(opts))
}

func newLogger(opts Options) *zerolog.Logger {
	formatOnce.Do(func() { zerolog.TimeFieldFormat = time.RFC3339Nano })

	var w io.Writer = os.Stdout
	if opts.Out != nil {
		w = opts.Out
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Str("service", serviceName).Logger().Level(parseLevel(opts.Level))
	return &l
}

// L returns the global logger. Falls back to an info-level JSON logger
// if Init has not been called yet.
func L() *zerolog.Logger {
	if l := base.Load(); l != nil {
		return l
	}
	base.CompareAndSwap(nil, newLogger(Options{}))
	return base.Load()
}

// ForReport returns a child logger scoped to one canteen/week pair.
func ForReport(canteenID, weekStart string) zerolog.Logger {
	return L().With().Str("canteen_id", canteenID).Str("week_start", weekStart).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
