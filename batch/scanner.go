// Package batch validates many WebP files concurrently and watches
// directories for new ones.
package batch

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/deepteams/webpcheck"
	"github.com/deepteams/webpcheck/internal/logging"
	"github.com/deepteams/webpcheck/internal/pool"
)

// DefaultInclude selects the files validated when walking a directory.
const DefaultInclude = "*.webp"

// Report is the validation outcome for one file.
type Report struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Digest string `json:"digest,omitempty"` // hex xxhash64 of the file content
	webpcheck.Result
}

// Config configures a Scanner.
type Config struct {
	Workers int    // files validated concurrently, < 1 means 1
	Include string // base-name glob for directory walks, empty means DefaultInclude
	Options webpcheck.Options
	Logger  *slog.Logger
}

// Scanner validates files and directory trees.
type Scanner struct {
	workers int
	include glob.Glob
	opts    webpcheck.Options
	log     *slog.Logger
}

// NewScanner returns a scanner for cfg. It fails only on an invalid
// include pattern.
func NewScanner(cfg Config) (*Scanner, error) {
	pattern := cfg.Include
	if pattern == "" {
		pattern = DefaultInclude
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
	}

	s := &Scanner{
		workers: max(cfg.Workers, 1),
		include: g,
		opts:    cfg.Options,
		log:     cfg.Logger,
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s, nil
}

// Match reports whether a file name found in a directory walk is
// validated. Matching is case-insensitive on the base name.
func (s *Scanner) Match(path string) bool {
	return s.include.Match(strings.ToLower(filepath.Base(path)))
}

// Expand resolves paths into the list of files to validate. Files are kept
// as given; directories are walked recursively and filtered with Match.
// Paths that cannot be stat'ed are kept so they are reported as
// unreadable.
func (s *Scanner) Expand(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil || !st.IsDir() {
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.log.Warn("skipping unreadable path", "path", path, "error", err)
				if d != nil && d.IsDir() && path != p {
					return fs.SkipDir
				}
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.Type().IsRegular() && s.Match(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return files, err
		}
	}
	return files, nil
}

// Scan validates the files named by paths, expanding directories, with up
// to Workers files in flight. Reports are in input order. On cancellation
// it returns the reports completed so far, in their slots, and ctx's error.
func (s *Scanner) Scan(ctx context.Context, paths []string) ([]Report, error) {
	files, err := s.Expand(ctx, paths)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = s.Check(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, ctx.Err()
}

// Check validates a single file.
func (s *Scanner) Check(path string) Report {
	r := Report{Path: path}

	buf, size, err := s.readFile(path)
	if err != nil {
		r.Size = size
		r.Result = webpcheck.FileError(err)
		s.log.Warn("unreadable file", "path", path, "error", err)
		return r
	}
	defer pool.Put(buf)

	r.Size = size
	r.Digest = digest(buf)
	r.Result = webpcheck.Validate(buf, &s.opts)

	if r.IsValid {
		s.log.Debug("valid webp", "path", path,
			"width", r.Width, "height", r.Height, "animated", r.IsAnimated, "frames", r.NumFrames)
	} else {
		s.log.Warn("invalid webp", "path", path, "kind", r.ErrorKind, "error", r.ErrorMessage)
	}
	return r
}

// readFile reads path into a pooled buffer. The caller must pool.Put the
// buffer when done.
func (s *Scanner) readFile(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}
	if st.IsDir() {
		return nil, 0, fmt.Errorf("%s: is a directory", path)
	}
	size := st.Size()
	if s.opts.MaxFileSize > 0 && size > s.opts.MaxFileSize {
		return nil, size, fmt.Errorf("%w: %s is %d bytes, limit %d",
			webpcheck.ErrTooLarge, path, size, s.opts.MaxFileSize)
	}

	buf := pool.Get(int(size))
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		pool.Put(buf)
		return nil, size, err
	}
	// A file that shrank since Stat is validated as read.
	return buf[:n], size, nil
}

func digest(data []byte) string {
	h := xxhash.New()
	h.Write(data) //nolint:errcheck // never fails
	return hex.EncodeToString(h.Sum(nil))
}

// Summary counts the outcomes of a scan.
type Summary struct {
	Total   int
	Valid   int
	Invalid int
	ByKind  map[webpcheck.ErrorKind]int
}

// Summarize tallies reports.
func Summarize(reports []Report) Summary {
	sum := Summary{ByKind: make(map[webpcheck.ErrorKind]int)}
	for _, r := range reports {
		sum.Total++
		if r.IsValid {
			sum.Valid++
			continue
		}
		sum.Invalid++
		sum.ByKind[r.ErrorKind]++
	}
	return sum
}
