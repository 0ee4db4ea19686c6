// Command webpcheck validates WebP files from the command line.
//
// Usage:
//
//	webpcheck check [options] <path>...   Validate files and directory trees
//	webpcheck info <input.webp>           Display WebP metadata (use "-" for stdin)
//	webpcheck serve [options]             Serve validation over HTTP
//	webpcheck watch <dir>...              Validate files as they appear
//
// Defaults come from BEAVER_WEBPCHECK_* environment variables and are
// overridden by flags.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deepteams/webpcheck"
	"github.com/deepteams/webpcheck/batch"
	"github.com/deepteams/webpcheck/internal/config"
	"github.com/deepteams/webpcheck/internal/logging"
	"github.com/deepteams/webpcheck/server"
)

// errInvalid makes check exit non-zero without printing another message.
var errInvalid = errors.New("invalid files found")

type app struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "webpcheck: %v\n", err)
		return 1
	}
	a := &app{cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr}

	switch args[0] {
	case "check":
		err = a.runCheck(ctx, args[1:])
	case "info":
		err = a.runInfo(args[1:])
	case "serve":
		err = a.runServe(ctx, args[1:])
	case "watch":
		err = a.runWatch(ctx, args[1:])
	case "-h", "-help", "--help", "help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "webpcheck: unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 1
	}

	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errInvalid):
		return 1
	default:
		fmt.Fprintf(stderr, "webpcheck: %v\n", err)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  webpcheck check [options] <path>...   Validate files and directory trees
  webpcheck info <input.webp>           Display WebP metadata
  webpcheck serve [options]             Serve POST /v1/validate over HTTP
  webpcheck watch [options] <dir>...    Validate files as they are written

Use "-" as info input to read from stdin.
Exit status is 1 when any checked file is invalid.

Run "webpcheck <command> -h" for command-specific options.
`)
}

// scanFlags registers the options shared by check and watch.
type scanFlags struct {
	workers  *int
	include  *string
	strict   *bool
	maxSize  *int64
	logLevel *string
}

func (a *app) addScanFlags(fs *flag.FlagSet) scanFlags {
	return scanFlags{
		workers:  fs.Int("workers", a.cfg.Workers, "files validated concurrently"),
		include:  fs.String("include", a.cfg.Include, "base-name glob for files inside directories"),
		strict:   fs.Bool("strict", a.cfg.Strict, "reject bytes after the declared RIFF size"),
		maxSize:  fs.Int64("max-size", a.cfg.MaxFileSize, "largest accepted file in bytes (0=unlimited)"),
		logLevel: fs.String("log-level", a.cfg.LogLevel, "log level: debug/info/warn/error"),
	}
}

func (a *app) scanner(f scanFlags) (*batch.Scanner, *slog.Logger, error) {
	logger := logging.New(*f.logLevel, a.stderr)
	s, err := batch.NewScanner(batch.Config{
		Workers: *f.workers,
		Include: *f.include,
		Options: webpcheck.Options{MaxFileSize: *f.maxSize, StrictTrailing: *f.strict},
		Logger:  logger,
	})
	return s, logger, err
}

// --- check ---

func (a *app) runCheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	jsonOut := fs.Bool("json", false, "print reports as JSON")
	sf := a.addScanFlags(fs)
	quiet := fs.Bool("q", false, "only print invalid files")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("check: missing input path\nUsage: webpcheck check [options] <path>...")
	}

	s, logger, err := a.scanner(sf)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	start := time.Now()
	reports, err := s.Scan(ctx, fs.Args())
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	if *jsonOut {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			if *quiet && r.IsValid {
				continue
			}
			printReport(a.stdout, r)
		}
	}

	sum := batch.Summarize(reports)
	logger.Info("check finished",
		"files", sum.Total, "valid", sum.Valid, "invalid", sum.Invalid, "elapsed", time.Since(start))
	if sum.Invalid > 0 {
		return errInvalid
	}
	return nil
}

func printReport(w io.Writer, r batch.Report) {
	if !r.IsValid {
		fmt.Fprintf(w, "FAIL  %s  %s\n", r.Path, r.ErrorMessage)
		return
	}
	fmt.Fprintf(w, "OK    %s  %dx%d", r.Path, r.Width, r.Height)
	if r.HasAlpha {
		fmt.Fprint(w, " alpha")
	}
	if r.IsAnimated {
		fmt.Fprintf(w, " animated frames=%d", r.NumFrames)
	}
	fmt.Fprintln(w)
}

// --- info ---

func (a *app) runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: webpcheck info <input.webp>")
	}
	inputPath := args[0]
	opts := &webpcheck.Options{MaxFileSize: a.cfg.MaxFileSize, StrictTrailing: a.cfg.Strict}

	var data []byte
	var err error
	if inputPath == "-" {
		data, err = webpcheck.ReadAll(a.stdin, opts)
	} else {
		data, err = webpcheck.ReadFile(inputPath, opts)
	}
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	feat, err := webpcheck.Inspect(data, opts)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	name := inputPath
	if inputPath == "-" {
		name = "<stdin>"
	}

	w := a.stdout
	fmt.Fprintf(w, "File:       %s\n", name)
	fmt.Fprintf(w, "Format:     %s\n", feat.Format)
	fmt.Fprintf(w, "Dimensions: %d x %d\n", feat.Width, feat.Height)
	fmt.Fprintf(w, "Alpha:      %v\n", feat.HasAlpha)
	fmt.Fprintf(w, "Animation:  %v\n", feat.HasAnimation)
	if feat.HasAnimation {
		fmt.Fprintf(w, "Frames:     %d\n", feat.FrameCount)
		loop := "infinite"
		if feat.LoopCount > 0 {
			loop = fmt.Sprintf("%d", feat.LoopCount)
		}
		fmt.Fprintf(w, "Loop count: %s\n", loop)
		fmt.Fprintf(w, "Background: 0x%08x\n", feat.BackgroundColor)
		for i, f := range feat.Frames {
			fmt.Fprintf(w, "  frame %d: %dx%d at (%d,%d) %v", i+1, f.Width, f.Height, f.X, f.Y, f.Duration)
			if f.HasAlpha {
				fmt.Fprint(w, " alpha")
			}
			if f.Dispose {
				fmt.Fprint(w, " dispose")
			}
			if !f.Blend {
				fmt.Fprint(w, " no-blend")
			}
			fmt.Fprintln(w)
		}
	}
	var meta []string
	if feat.HasICCP {
		meta = append(meta, "ICC")
	}
	if feat.HasEXIF {
		meta = append(meta, "EXIF")
	}
	if feat.HasXMP {
		meta = append(meta, "XMP")
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "Metadata:   %s\n", strings.Join(meta, " "))
	}
	fmt.Fprintf(w, "File size:  %d bytes\n", len(data))
	return nil
}

// --- serve ---

func (a *app) runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	addr := fs.String("addr", a.cfg.ListenAddr(), "listen address")
	maxSize := fs.Int64("max-size", a.cfg.MaxFileSize, "largest accepted body in bytes (0=server default)")
	strict := fs.Bool("strict", a.cfg.Strict, "reject bytes after the declared RIFF size")
	logLevel := fs.String("log-level", a.cfg.LogLevel, "log level: debug/info/warn/error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := logging.New(*logLevel, a.stderr)
	if logging.ParseLevel(*logLevel) == slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr: *addr,
		Handler: server.New(server.Options{
			Validate: webpcheck.Options{MaxFileSize: *maxSize, StrictTrailing: *strict},
			Logger:   logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", *addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// --- watch ---

func (a *app) runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	sf := a.addScanFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("watch: missing directory\nUsage: webpcheck watch [options] <dir>...")
	}

	s, logger, err := a.scanner(sf)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w, err := batch.NewWatcher(s, func(r batch.Report) { printReport(a.stdout, r) }, fs.Args()...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	logger.Info("watching", "dirs", fs.Args())
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
