// Command server exposes dobbi text-normalization pipelines over a small
// fasthttp JSON API. Callers describe an ordered step sequence per
// request; the server assembles the pipeline and runs it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"

	"github.com/iaramer/dobbi"
)

var logger l.Logger

// StepSpec describes one pipeline step in a request. Pattern is required
// for the "regexp" step only. Replacement is a pointer so an explicit
// empty token can be told apart from an omitted one; it is honored in
// replace mode and ignored otherwise.
type StepSpec struct {
	Name        string  `json:"name"`
	Pattern     string  `json:"pattern,omitempty"`
	Replacement *string `json:"replacement,omitempty"`
}

// Request is the body of the clean, replace and collect endpoints.
type Request struct {
	Text  string     `json:"text"`
	Steps []StepSpec `json:"steps"`
}

// TransformResponse is returned by the clean and replace endpoints.
type TransformResponse struct {
	Result string `json:"result"`
}

// CollectResponse is returned by the collect endpoint.
type CollectResponse struct {
	Matches []string                  `json:"matches"`
	Counts  map[string]map[string]int `json:"counts"`
}

// ErrorResponse carries an error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	configPath := flag.String("config", "", "YAML config file path")
	port := flag.Int("port", DefaultConfig().Port, "HTTP server port")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", DefaultConfig().MaxRequestSize, "Maximum request size in bytes")
	concurrency := flag.Int("concurrency", 0, "Maximum number of concurrent requests (0 = GOMAXPROCS)")
	warmUp := flag.Bool("warm-up", true, "Pre-exercise pattern rules on startup")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	applyFlags(&cfg, *port, *readTimeout, *writeTimeout, *maxRequestSize, *concurrency, *warmUp, *logFile)

	var err error
	logger, err = createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	rt, _ := cfg.readTimeout()
	wt, _ := cfg.writeTimeout()

	logger.Info("Starting dobbi HTTP server",
		"port", cfg.Port,
		"read_timeout", rt,
		"write_timeout", wt,
		"max_request_size", cfg.MaxRequestSize,
		"concurrency", cfg.Concurrency,
		"warm_up", cfg.WarmUp,
	)

	if cfg.WarmUp {
		// Building any pipeline with warm-up enabled heats the shared
		// registry for every request that follows.
		dobbi.Clean(dobbi.WithLogger(logger), dobbi.WithWarmUp(true))
	}

	server := &fasthttp.Server{
		Handler:               requestHandler,
		ReadTimeout:           rt,
		WriteTimeout:          wt,
		MaxRequestBodySize:    cfg.MaxRequestSize,
		Concurrency:           cfg.Concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("Server listening", "address", fmt.Sprintf(":%d", cfg.Port))
	if err := server.ListenAndServe(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Error("Server error", "error", err)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// applyFlags overrides config values with flags the caller set explicitly.
func applyFlags(cfg *Config, port int, rt, wt time.Duration, maxSize, concurrency int, warmUp bool, logFile string) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = port
		case "read-timeout":
			cfg.ReadTimeout = rt.String()
		case "write-timeout":
			cfg.WriteTimeout = wt.String()
		case "max-request-size":
			cfg.MaxRequestSize = maxSize
		case "concurrency":
			cfg.Concurrency = concurrency
		case "warm-up":
			cfg.WarmUp = warmUp
		case "log-file":
			cfg.LogFile = logFile
		}
	})
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "DobbiServer")

	switch string(ctx.Path()) {
	case "/health":
		handleHealthCheck(ctx)
	case "/clean":
		handleTransform(ctx, modeClean)
	case "/replace":
		handleTransform(ctx, modeReplace)
	case "/collect":
		handleCollect(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found")
	}

	duration := time.Since(startTime)
	logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", duration,
	)
}

func handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func handleTransform(ctx *fasthttp.RequestCtx, mode string) {
	req, ok := parseRequest(ctx)
	if !ok {
		return
	}

	pipe := newPipeline(mode)
	for _, step := range req.Steps {
		if err := applyStep(pipe, mode, step); err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			writeJSONError(ctx, err.Error())
			return
		}
	}

	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := pipe.Execute(c, req.Text)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, TransformResponse{Result: result})
}

func handleCollect(ctx *fasthttp.RequestCtx) {
	req, ok := parseRequest(ctx)
	if !ok {
		return
	}

	coll := dobbi.Collect(dobbi.WithLogger(logger))
	for _, step := range req.Steps {
		if err := applyCollectStep(coll, step); err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			writeJSONError(ctx, err.Error())
			return
		}
	}

	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	matches, err := coll.Execute(c, req.Text)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error())
		return
	}
	counts, err := coll.Counts(c, req.Text)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, CollectResponse{Matches: matches, Counts: counts})
}

const (
	modeClean   = "clean"
	modeReplace = "replace"
)

func newPipeline(mode string) *dobbi.Pipeline {
	if mode == modeReplace {
		return dobbi.Replace(dobbi.WithLogger(logger))
	}
	return dobbi.Clean(dobbi.WithLogger(logger))
}

// applyStep maps a request step onto the typed builder surface. Unknown
// step names are rejected here; pattern compilation errors surface from
// Execute via the builder's sticky error.
func applyStep(pipe *dobbi.Pipeline, mode string, step StepSpec) error {
	var repl []string
	if mode == modeReplace && step.Replacement != nil {
		repl = []string{*step.Replacement}
	}

	switch step.Name {
	case "regexp":
		if step.Pattern == "" {
			return fmt.Errorf("step %q requires a pattern", step.Name)
		}
		pipe.Regexp(step.Pattern, repl...)
	case "url":
		pipe.URL(repl...)
	case "hashtag":
		pipe.Hashtag(repl...)
	case "nickname":
		pipe.Nickname(repl...)
	case "html":
		pipe.HTML(repl...)
	case "punctuation":
		pipe.Punctuation(repl...)
	case "whitespace":
		pipe.Whitespace(repl...)
	case "emoji":
		pipe.Emoji(repl...)
	case "emoticons":
		pipe.Emoticons(repl...)
	default:
		return fmt.Errorf("unknown step %q", step.Name)
	}
	return nil
}

func applyCollectStep(coll *dobbi.Collector, step StepSpec) error {
	switch step.Name {
	case "regexp":
		if step.Pattern == "" {
			return fmt.Errorf("step %q requires a pattern", step.Name)
		}
		coll.Regexp(step.Pattern)
	case "url":
		coll.URL()
	case "hashtag":
		coll.Hashtag()
	case "nickname":
		coll.Nickname()
	case "html":
		coll.HTML()
	case "punctuation":
		coll.Punctuation()
	case "whitespace":
		coll.Whitespace()
	case "emoji":
		coll.Emoji()
	case "emoticons":
		coll.Emoticons()
	default:
		return fmt.Errorf("unknown step %q", step.Name)
	}
	return nil
}

func parseRequest(ctx *fasthttp.RequestCtx) (Request, bool) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return Request{}, false
	}

	var req Request
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return Request{}, false
	}

	if len(req.Steps) == 0 {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "At least one step is required")
		return Request{}, false
	}

	return req, true
}

func writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON response", "error", err)
		writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

func writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}

func createLogger(cfg Config) (l.Logger, error) {
	factory := l.NewStandardFactory()

	var output io.Writer = os.Stdout
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  cfg.JSONLog,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
