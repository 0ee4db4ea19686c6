package container

import "io"

// ChunkType identifies the chunk kinds the validator understands. Any other
// tag is ChunkUnknown.
type ChunkType int

const (
	ChunkUnknown ChunkType = iota
	ChunkVP8
	ChunkVP8L
	ChunkVP8X
	ChunkALPH
	ChunkANIM
	ChunkANMF
	ChunkICCP
	ChunkEXIF
	ChunkXMP
)

// String returns the chunk tag for known types.
func (t ChunkType) String() string {
	switch t {
	case ChunkVP8:
		return "VP8 "
	case ChunkVP8L:
		return "VP8L"
	case ChunkVP8X:
		return "VP8X"
	case ChunkALPH:
		return "ALPH"
	case ChunkANIM:
		return "ANIM"
	case ChunkANMF:
		return "ANMF"
	case ChunkICCP:
		return "ICCP"
	case ChunkEXIF:
		return "EXIF"
	case ChunkXMP:
		return "XMP "
	default:
		return "unknown"
	}
}

// TypeOf maps a FourCC to its ChunkType.
func TypeOf(fourcc uint32) ChunkType {
	switch fourcc {
	case FourCCVP8:
		return ChunkVP8
	case FourCCVP8L:
		return ChunkVP8L
	case FourCCVP8X:
		return ChunkVP8X
	case FourCCALPH:
		return ChunkALPH
	case FourCCANIM:
		return ChunkANIM
	case FourCCANMF:
		return ChunkANMF
	case FourCCICCP:
		return ChunkICCP
	case FourCCEXIF:
		return ChunkEXIF
	case FourCCXMP:
		return ChunkXMP
	default:
		return ChunkUnknown
	}
}

// Chunk is a view of one RIFF chunk. Payload aliases the walked buffer and
// excludes the padding byte.
type Chunk struct {
	FourCC  uint32
	Type    ChunkType
	Offset  int // offset of the chunk header within the walked buffer
	Payload []byte
}

// Tag returns the chunk's FourCC as text.
func (c Chunk) Tag() string { return FourCCString(c.FourCC) }

// Walker iterates the chunks of a buffer in a single forward pass.
// It never copies and never reads outside buf.
type Walker struct {
	buf []byte
	pos int
	err error
}

// NewWalker returns a walker over buf, which must start at a chunk header.
func NewWalker(buf []byte) *Walker {
	return &Walker{buf: buf}
}

// Next returns the next chunk. It returns io.EOF once the buffer is consumed
// exactly at a chunk boundary, or when only a zero tail shorter than a
// chunk header remains. Errors are sticky.
func (w *Walker) Next() (Chunk, error) {
	if w.err != nil {
		return Chunk{}, w.err
	}

	remaining := len(w.buf) - w.pos
	if remaining == 0 || (remaining < ChunkHeaderSize && zeroPadding(w.buf[w.pos:])) {
		w.err = io.EOF
		return Chunk{}, w.err
	}

	fourcc, payloadSize, err := ReadChunkHeader(w.buf[w.pos:])
	if err != nil {
		w.err = err
		return Chunk{}, err
	}

	avail := uint64(remaining - ChunkHeaderSize)
	if uint64(payloadSize) > avail {
		w.err = newError(KindTruncated, fourcc,
			"size overflow: declares %d payload bytes, %d remain", payloadSize, avail)
		return Chunk{}, w.err
	}

	start := w.pos + ChunkHeaderSize
	end := start + int(payloadSize)
	c := Chunk{
		FourCC:  fourcc,
		Type:    TypeOf(fourcc),
		Offset:  w.pos,
		Payload: w.buf[start:end:end],
	}

	// Chunks are padded to even byte boundaries. A missing pad byte at the
	// very end of the buffer is tolerated.
	w.pos = start + int(min(PaddedSize(payloadSize), avail))
	return c, nil
}

// zeroPadding reports whether a tail too short for a chunk header is all
// zero bytes, which encoders leave as padding.
func zeroPadding(tail []byte) bool {
	for _, b := range tail {
		if b != 0 {
			return false
		}
	}
	return true
}

// Offset returns the position of the next chunk header.
func (w *Walker) Offset() int { return w.pos }
