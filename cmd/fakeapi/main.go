// Command fakeapi serves the scripted processing service for local runs of
// clipdeck without the real backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cuivienor/clipdeck/internal/fakeapi"
	"github.com/cuivienor/clipdeck/internal/logging"
)

// Options holds parsed command-line options
type Options struct {
	Addr     string
	Strict   bool
	IDs      []string
	LogLevel string
}

func main() {
	opts, err := ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Usage: fakeapi [-addr :5000] [-strict] [-ids a,b,c]\n")
		os.Exit(1)
	}

	log := logging.New(os.Stderr, opts.LogLevel)

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           requestLogger(log, fakeapi.New(BuildOptions(opts)...)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", opts.Addr).Info("fake processing service listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server failed")
	}
}

// ParseArgs parses command-line arguments
func ParseArgs(args []string) (*Options, error) {
	fs := flag.NewFlagSet("fakeapi", flag.ContinueOnError)

	var ids string
	opts := &Options{}
	fs.StringVar(&opts.Addr, "addr", ":5000", "Listen address")
	fs.BoolVar(&opts.Strict, "strict", false, "Reject URLs that are not YouTube links")
	fs.StringVar(&ids, "ids", "", "Comma-separated job ids to hand out first")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.Addr == "" {
		return nil, errors.New("listen address (-addr) is required")
	}
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			opts.IDs = append(opts.IDs, id)
		}
	}
	return opts, nil
}

// BuildOptions turns command-line options into server options. Every clip
// of the default script gets placeholder content so downloads work.
func BuildOptions(opts *Options) []fakeapi.Option {
	var out []fakeapi.Option
	if opts.Strict {
		out = append(out, fakeapi.WithStrictURLs())
	}
	if len(opts.IDs) > 0 {
		out = append(out, fakeapi.WithIDs(opts.IDs...))
	}

	script := fakeapi.DefaultScript()
	for _, snap := range script.Phase2 {
		for _, clip := range snap.Clips {
			out = append(out, fakeapi.WithFile(clip.Filename, []byte("fake short: "+clip.Title+"\n")))
		}
	}
	return out
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(log *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Microsecond),
		}).Info("request")
	})
}
