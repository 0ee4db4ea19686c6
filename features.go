package webpcheck

import (
	"fmt"
	"time"

	"github.com/deepteams/webpcheck/internal/container"
)

// Features describes a valid WebP file's properties.
type Features struct {
	Width           int
	Height          int
	HasAlpha        bool
	HasAnimation    bool
	Format          string // "lossy", "lossless", "extended"
	LoopCount       int    // animation loop count (0 = infinite)
	FrameCount      int    // number of frames (0 for still images)
	BackgroundColor uint32 // animation background, B, G, R, A byte order
	HasICCP         bool
	HasEXIF         bool
	HasXMP          bool
	Frames          []Frame // animated only, in display order
}

// Frame describes one frame of an animation.
type Frame struct {
	X, Y          int // offset on the canvas
	Width, Height int
	Duration      time.Duration
	Dispose       bool // dispose to background after display
	Blend         bool // alpha-blend onto the canvas
	HasAlpha      bool
}

// Inspect validates data and returns its features. Validation failures are
// returned as errors whose kind is available through KindOf.
func Inspect(data []byte, opts *Options) (*Features, error) {
	opts = opts.orDefault()
	if opts.tooLarge(int64(len(data))) {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), opts.MaxFileSize)
	}

	info, err := container.Validate(data, opts.engine())
	if err != nil {
		return nil, fmt.Errorf("webpcheck: %w", err)
	}

	f := &Features{
		Width:           int(info.Width),
		Height:          int(info.Height),
		HasAlpha:        info.HasAlpha,
		HasAnimation:    info.IsAnimated,
		LoopCount:       int(info.LoopCount),
		FrameCount:      int(info.NumFrames),
		BackgroundColor: info.BackgroundColor,
		HasICCP:         info.HasICCP,
		HasEXIF:         info.HasEXIF,
		HasXMP:          info.HasXMP,
	}
	for _, fh := range info.Frames {
		f.Frames = append(f.Frames, Frame{
			X:        int(fh.XOffset),
			Y:        int(fh.YOffset),
			Width:    int(fh.Width),
			Height:   int(fh.Height),
			Duration: time.Duration(fh.Duration) * time.Millisecond,
			Dispose:  fh.Dispose,
			Blend:    !fh.NoBlend,
			HasAlpha: fh.HasAlpha,
		})
	}

	switch info.Format {
	case container.FormatVP8:
		f.Format = "lossy"
	case container.FormatVP8L:
		f.Format = "lossless"
	case container.FormatVP8X:
		f.Format = "extended"
	default:
		f.Format = "unknown"
	}

	return f, nil
}
