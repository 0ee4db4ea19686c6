package container

import "io"

// FormatType identifies the container layout.
type FormatType int

const (
	FormatUndefined FormatType = iota
	FormatVP8                  // simple lossy
	FormatVP8L                 // simple lossless
	FormatVP8X                 // extended
)

// String returns a human-readable format name.
func (f FormatType) String() string {
	switch f {
	case FormatVP8:
		return "VP8"
	case FormatVP8L:
		return "VP8L"
	case FormatVP8X:
		return "VP8X"
	default:
		return "undefined"
	}
}

// Options tunes container validation. The zero value is the lenient default.
type Options struct {
	// StrictTrailing rejects bytes after the extent declared by the RIFF
	// header instead of ignoring them.
	StrictTrailing bool
}

// Info is the metadata of an accepted container.
type Info struct {
	Width      uint32
	Height     uint32
	HasAlpha   bool
	IsAnimated bool
	NumFrames  uint32 // 0 for still images
	Format     FormatType

	LoopCount       uint16 // animated only, 0 = infinite
	BackgroundColor uint32 // animated only
	HasICCP         bool
	HasEXIF         bool
	HasXMP          bool

	Frames []FrameHeader // animated only, in file order
}

type state int

const (
	stateExpectHeader state = iota
	stateReadingChunks
)

// animationState accumulates what the chunk sequence of an animated file
// has shown so far.
type animationState struct {
	frames     uint32
	sawANIM    bool
	frameAlpha bool
}

type validation struct {
	state    state
	info     Info
	extended bool
	ext      ExtendedHeader
	anim     animationState

	sawALPH        bool
	sawBitstream   bool
	bitstreamAlpha bool
}

// Validate checks that data is a well-formed WebP container and returns its
// metadata. Failures are *Error values; data is never retained.
func Validate(data []byte, opts Options) (Info, error) {
	hdr, off, err := ParseRIFFHeader(data)
	if err != nil {
		return Info{}, err
	}
	if hdr.FileSize < TagSize {
		return Info{}, newError(KindTruncated, 0,
			"declared RIFF size %d cannot hold the WEBP form type", hdr.FileSize)
	}

	end := hdr.End()
	if end > uint64(len(data)) {
		return Info{}, newError(KindTruncated, 0,
			"container truncated: RIFF header declares %d bytes, have %d", end, len(data))
	}
	if end < uint64(len(data)) && opts.StrictTrailing {
		return Info{}, newError(KindTruncated, 0,
			"oversized container: %d bytes after the declared RIFF data", uint64(len(data))-end)
	}

	var v validation
	if err := v.run(NewWalker(data[off:end])); err != nil {
		return Info{}, err
	}
	return v.info, nil
}

func (v *validation) run(w *Walker) error {
	for {
		c, err := w.Next()
		if err == io.EOF {
			return v.finish()
		}
		if err != nil {
			return err
		}
		if err := v.step(c); err != nil {
			return err
		}
	}
}

func (v *validation) step(c Chunk) error {
	switch {
	case v.state == stateExpectHeader:
		v.state = stateReadingChunks
		return v.first(c)
	case v.extended:
		return v.extendedChunk(c)
	default:
		return v.simpleChunk(c)
	}
}

func (v *validation) first(c Chunk) error {
	switch c.Type {
	case ChunkVP8X:
		ext, err := ParseVP8X(c.Payload)
		if err != nil {
			return err
		}
		v.extended = true
		v.ext = ext
		v.info = Info{
			Width:      ext.CanvasWidth,
			Height:     ext.CanvasHeight,
			HasAlpha:   ext.HasAlpha(),
			IsAnimated: ext.HasAnimation(),
			Format:     FormatVP8X,
			HasICCP:    ext.HasICCP(),
			HasEXIF:    ext.HasEXIF(),
			HasXMP:     ext.HasXMP(),
		}
		return nil

	case ChunkVP8, ChunkVP8L:
		h, err := parseBitstream(c)
		if err != nil {
			return err
		}
		v.sawBitstream = true
		v.info = Info{
			Width:    h.Width,
			Height:   h.Height,
			HasAlpha: h.HasAlpha,
			Format:   FormatVP8,
		}
		if c.Type == ChunkVP8L {
			v.info.Format = FormatVP8L
		}
		return nil

	default:
		return newError(KindOrder, c.FourCC, "first chunk must be VP8X, VP8 or VP8L")
	}
}

// simpleChunk handles chunks after a VP8/VP8L first chunk. Such a file is a
// single still image; feature chunks are not allowed.
func (v *validation) simpleChunk(c Chunk) error {
	switch c.Type {
	case ChunkVP8X, ChunkANIM, ChunkANMF, ChunkALPH:
		return newError(KindOrder, c.FourCC, "not allowed after a simple %s header", v.info.Format)
	case ChunkVP8, ChunkVP8L:
		return newError(KindOrder, c.FourCC, "second image bitstream in a simple-format file")
	default:
		return nil
	}
}

func (v *validation) extendedChunk(c Chunk) error {
	animated := v.ext.HasAnimation()

	switch c.Type {
	case ChunkVP8X:
		return newError(KindOrder, c.FourCC, "duplicate extended header")

	case ChunkANIM:
		if !animated {
			return newError(KindFlags, c.FourCC, "present but VP8X animation flag is clear")
		}
		if v.anim.sawANIM {
			return newError(KindOrder, c.FourCC, "duplicate animation parameters")
		}
		p, err := ParseANIM(c.Payload)
		if err != nil {
			return err
		}
		v.anim.sawANIM = true
		v.info.LoopCount = p.LoopCount
		v.info.BackgroundColor = p.BackgroundColor
		return nil

	case ChunkANMF:
		if !animated {
			return newError(KindFlags, c.FourCC, "present but VP8X animation flag is clear")
		}
		if !v.anim.sawANIM {
			return newError(KindOrder, c.FourCC, "frame before ANIM chunk")
		}
		f, err := ParseANMF(c.Payload)
		if err != nil {
			return err
		}
		v.anim.frames++
		v.info.Frames = append(v.info.Frames, f)
		if f.HasAlpha {
			v.anim.frameAlpha = true
		}
		return nil

	case ChunkALPH:
		if animated {
			return newError(KindOrder, c.FourCC, "outside ANMF in an animated file")
		}
		if !v.ext.HasAlpha() {
			return newError(KindFlags, c.FourCC, "present but VP8X alpha flag is clear")
		}
		if v.sawALPH {
			return newError(KindOrder, c.FourCC, "duplicate alpha chunk")
		}
		if v.sawBitstream {
			return newError(KindOrder, c.FourCC, "after the image bitstream")
		}
		v.sawALPH = true
		return nil

	case ChunkVP8, ChunkVP8L:
		if animated {
			return newError(KindOrder, c.FourCC, "image bitstream outside ANMF in an animated file")
		}
		if v.sawBitstream {
			return newError(KindOrder, c.FourCC, "second image bitstream")
		}
		if c.Type == ChunkVP8L && v.sawALPH {
			return newError(KindOrder, c.FourCC, "lossless bitstream after ALPH chunk")
		}
		h, err := parseBitstream(c)
		if err != nil {
			return err
		}
		v.sawBitstream = true
		v.bitstreamAlpha = h.HasAlpha
		return nil

	default:
		// ICCP, EXIF, XMP and unknown chunks carry nothing the validator needs.
		return nil
	}
}

func (v *validation) finish() error {
	if v.state == stateExpectHeader {
		return newError(KindTruncated, 0, "no chunks after RIFF header")
	}
	if !v.extended {
		return nil
	}

	if v.ext.HasAnimation() {
		if !v.anim.sawANIM {
			return newError(KindFlags, FourCCANIM, "missing although VP8X animation flag is set")
		}
		if v.anim.frames == 0 {
			return newError(KindFlags, FourCCANMF, "no frames although VP8X animation flag is set")
		}
		if v.ext.HasAlpha() && !v.anim.frameAlpha {
			return newError(KindFlags, FourCCVP8X, "alpha flag set but no frame carries alpha")
		}
		if !v.ext.HasAlpha() && v.anim.frameAlpha {
			return newError(KindFlags, FourCCVP8X, "a frame carries alpha but the alpha flag is clear")
		}
		v.info.NumFrames = v.anim.frames
		return nil
	}

	if !v.sawBitstream {
		return newError(KindFlags, FourCCVP8X, "still image has no VP8 or VP8L bitstream")
	}
	if v.ext.HasAlpha() && !v.sawALPH && !v.bitstreamAlpha {
		return newError(KindFlags, FourCCVP8X, "alpha flag set but no alpha data present")
	}
	if !v.ext.HasAlpha() && v.bitstreamAlpha {
		return newError(KindFlags, FourCCVP8L, "alpha bit set but VP8X alpha flag is clear")
	}
	return nil
}

func parseBitstream(c Chunk) (BitstreamHeader, error) {
	if c.Type == ChunkVP8L {
		return ParseVP8LHeader(c.Payload)
	}
	return ParseVP8Header(c.Payload)
}
