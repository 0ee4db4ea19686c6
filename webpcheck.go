package webpcheck

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deepteams/webpcheck/internal/container"
)

// ErrorKind classifies a rejected input. It is the error_kind field of a
// Result.
type ErrorKind = container.ErrorKind

// Error kinds.
const (
	KindUnreadable = container.KindUnreadable // input could not be read at all
	KindSignature  = container.KindSignature  // not a RIFF/WEBP file (renamed JPEG, PNG, ...)
	KindTruncated  = container.KindTruncated  // a chunk or the container extends past the data
	KindMalformed  = container.KindMalformed  // a feature chunk is too short or has bad fields
	KindOrder      = container.KindOrder      // chunks appear in an impossible order
	KindFlags      = container.KindFlags      // VP8X flags disagree with the chunks present
)

// Sentinels matching every validation error of one kind, for use with
// errors.Is on Result.Err or an Inspect error.
var (
	ErrUnreadable = container.ErrUnreadable
	ErrSignature  = container.ErrSignature
	ErrTruncated  = container.ErrTruncated
	ErrMalformed  = container.ErrMalformed
	ErrOrder      = container.ErrOrder
	ErrFlags      = container.ErrFlags
)

// Message prefixes of invalid results.
const (
	openFailedPrefix       = "failed to open file: "
	validationFailedPrefix = "webp format validation failed: "
)

// ErrTooLarge is reported when an input exceeds Options.MaxFileSize.
var ErrTooLarge = errors.New("webpcheck: input exceeds size limit")

// Result is the outcome of validating one input. Metadata fields are
// meaningful only when IsValid is set; an invalid result carries zero
// metadata.
type Result struct {
	IsValid      bool      `json:"is_valid"`
	Width        uint32    `json:"width"`
	Height       uint32    `json:"height"`
	HasAlpha     bool      `json:"has_alpha"`
	IsAnimated   bool      `json:"is_animated"`
	NumFrames    uint32    `json:"num_frames"` // 0 unless IsAnimated
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`

	err error
}

// Err returns the underlying error of an invalid result, or nil.
func (r Result) Err() error { return r.err }

// Options controls validation. A nil *Options uses the defaults.
type Options struct {
	// MaxFileSize bounds the input size in bytes. Zero means unlimited.
	MaxFileSize int64

	// StrictTrailing rejects bytes after the extent declared by the RIFF
	// header. By default they are ignored.
	StrictTrailing bool
}

var defaultOptions Options

func (o *Options) orDefault() *Options {
	if o == nil {
		return &defaultOptions
	}
	return o
}

func (o *Options) engine() container.Options {
	return container.Options{StrictTrailing: o.StrictTrailing}
}

func (o *Options) tooLarge(n int64) bool {
	return o.MaxFileSize > 0 && n > o.MaxFileSize
}

// Validate checks an in-memory WebP file. data is not retained or
// modified, so Validate is safe for concurrent use as long as callers do
// not mutate data meanwhile.
func Validate(data []byte, opts *Options) Result {
	opts = opts.orDefault()
	if opts.tooLarge(int64(len(data))) {
		return unreadable(fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), opts.MaxFileSize), "")
	}

	info, err := container.Validate(data, opts.engine())
	if err != nil {
		return invalid(err)
	}
	return Result{
		IsValid:    true,
		Width:      info.Width,
		Height:     info.Height,
		HasAlpha:   info.HasAlpha,
		IsAnimated: info.IsAnimated,
		NumFrames:  info.NumFrames,
	}
}

// ValidateReader reads r to the end and validates the bytes. A read error
// yields a KindUnreadable result.
func ValidateReader(r io.Reader, opts *Options) Result {
	opts = opts.orDefault()
	data, err := ReadAll(r, opts)
	if err != nil {
		return unreadable(fmt.Errorf("reading input: %w", err), "")
	}
	return Validate(data, opts)
}

// ReadAll reads r to the end, failing with ErrTooLarge once more than
// opts.MaxFileSize bytes arrive.
func ReadAll(r io.Reader, opts *Options) ([]byte, error) {
	return readAll(r, opts.orDefault().MaxFileSize)
}

// ValidateFile validates the file at path. A missing or unreadable file
// yields a KindUnreadable result.
func ValidateFile(path string, opts *Options) Result {
	opts = opts.orDefault()
	data, err := ReadFile(path, opts)
	if err != nil {
		return unreadable(err, openFailedPrefix)
	}
	return Validate(data, opts)
}

// ReadFile reads the file at path, refusing directories and files larger
// than opts.MaxFileSize.
func ReadFile(path string, opts *Options) ([]byte, error) {
	opts = opts.orDefault()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	if opts.tooLarge(st.Size()) {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, st.Size(), opts.MaxFileSize)
	}
	return readAll(f, opts.MaxFileSize)
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of
// the repeated doublings that io.ReadAll performs. A positive limit caps
// the bytes read.
func readAll(r io.Reader, limit int64) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if limit > 0 && int64(n) > limit {
			return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, n, limit)
		}
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	if limit <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// FileError returns the KindUnreadable result for a file that could not be
// opened or read, for callers that read files themselves.
func FileError(err error) Result {
	return unreadable(err, openFailedPrefix)
}

func invalid(err error) Result {
	return Result{
		ErrorKind:    container.KindOf(err),
		ErrorMessage: validationFailedPrefix + err.Error(),
		err:          err,
	}
}

func unreadable(err error, prefix string) Result {
	return Result{
		ErrorKind:    KindUnreadable,
		ErrorMessage: prefix + err.Error(),
		err:          &container.Error{Kind: KindUnreadable, Msg: err.Error(), Err: err},
	}
}

// KindOf returns the kind of a validation error returned by Inspect, or ""
// for any other error.
func KindOf(err error) ErrorKind {
	return container.KindOf(err)
}
