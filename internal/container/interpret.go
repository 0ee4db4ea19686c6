package container

import "encoding/binary"

// VP8X feature flags (from the first byte of VP8X chunk payload).
const (
	AnimationFlag uint8 = 0x02
	XMPFlag       uint8 = 0x04
	EXIFFlag      uint8 = 0x08
	AlphaFlag     uint8 = 0x10
	ICCPFlag      uint8 = 0x20
)

// BitstreamHeader holds what the validator reads from a VP8 or VP8L header.
type BitstreamHeader struct {
	Width    uint32
	Height   uint32
	HasAlpha bool // VP8L only; VP8 carries alpha in a separate ALPH chunk
}

// ExtendedHeader is the decoded VP8X payload.
type ExtendedHeader struct {
	Flags        uint8
	CanvasWidth  uint32
	CanvasHeight uint32
}

func (h ExtendedHeader) HasAnimation() bool { return h.Flags&AnimationFlag != 0 }
func (h ExtendedHeader) HasAlpha() bool     { return h.Flags&AlphaFlag != 0 }
func (h ExtendedHeader) HasICCP() bool      { return h.Flags&ICCPFlag != 0 }
func (h ExtendedHeader) HasEXIF() bool      { return h.Flags&EXIFFlag != 0 }
func (h ExtendedHeader) HasXMP() bool       { return h.Flags&XMPFlag != 0 }

// AnimParams is the decoded ANIM payload.
type AnimParams struct {
	BackgroundColor uint32 // stored as B, G, R, A bytes
	LoopCount       uint16 // 0 = infinite
}

// FrameHeader is the decoded fixed part of an ANMF payload, plus what a
// best-effort scan of its sub-chunks revealed.
type FrameHeader struct {
	XOffset  uint32
	YOffset  uint32
	Width    uint32
	Height   uint32
	Duration uint32 // milliseconds
	Dispose  bool   // dispose to background
	NoBlend  bool
	HasAlpha bool
}

// ParseVP8Header extracts width and height from a VP8 lossy bitstream header.
func ParseVP8Header(data []byte) (BitstreamHeader, error) {
	if len(data) < VP8FrameHeaderSize {
		return BitstreamHeader{}, newError(KindMalformed, FourCCVP8,
			"payload is %d bytes, frame header needs %d", len(data), VP8FrameHeaderSize)
	}

	// First 3 bytes: frame tag (keyframe info, version, show, partition size).
	frameTag := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
	if frameTag&1 != 0 {
		return BitstreamHeader{}, newError(KindMalformed, FourCCVP8, "not a keyframe")
	}

	// Bytes 3-5: start code (0x9D 0x01 0x2A), read as big-endian.
	sig := uint32(data[3])<<16 | uint32(data[4])<<8 | uint32(data[5])
	if sig != VP8Signature {
		return BitstreamHeader{}, newError(KindMalformed, FourCCVP8,
			"bad start code 0x%06x", sig)
	}

	// Bytes 6-9: width and height, 14 bits each plus 2 bits of scale.
	width := uint32(binary.LittleEndian.Uint16(data[6:8])) & 0x3FFF
	height := uint32(binary.LittleEndian.Uint16(data[8:10])) & 0x3FFF
	if width == 0 || height == 0 {
		return BitstreamHeader{}, newError(KindMalformed, FourCCVP8,
			"zero dimension %dx%d", width, height)
	}
	return BitstreamHeader{Width: width, Height: height}, nil
}

// ParseVP8LHeader extracts width, height, and alpha presence from a VP8L
// lossless bitstream header.
func ParseVP8LHeader(data []byte) (BitstreamHeader, error) {
	if len(data) < VP8LFrameHeaderSize {
		return BitstreamHeader{}, newError(KindMalformed, FourCCVP8L,
			"payload is %d bytes, header needs %d", len(data), VP8LFrameHeaderSize)
	}
	if data[0] != VP8LMagicByte {
		return BitstreamHeader{}, newError(KindMalformed, FourCCVP8L,
			"bad signature byte 0x%02x", data[0])
	}

	// width-1 (14) | height-1 (14) | alpha (1) | version (3)
	bits := binary.LittleEndian.Uint32(data[1:5])
	h := BitstreamHeader{
		Width:    bits&0x3FFF + 1,
		Height:   (bits>>VP8LImageSizeBits)&0x3FFF + 1,
		HasAlpha: (bits>>28)&1 != 0,
	}
	if version := bits >> 29; version != VP8LVersion {
		return BitstreamHeader{}, newError(KindMalformed, FourCCVP8L,
			"unsupported version %d", version)
	}
	return h, nil
}

// ParseVP8X decodes the extended features header.
func ParseVP8X(data []byte) (ExtendedHeader, error) {
	if len(data) != VP8XChunkSize {
		return ExtendedHeader{}, newError(KindMalformed, FourCCVP8X,
			"payload is %d bytes, want %d", len(data), VP8XChunkSize)
	}

	// Reserved flag bits are ignored.
	h := ExtendedHeader{
		Flags:        data[0],
		CanvasWidth:  1 + readLE24(data[4:7]),
		CanvasHeight: 1 + readLE24(data[7:10]),
	}
	if uint64(h.CanvasWidth)*uint64(h.CanvasHeight) >= MaxImageArea {
		return ExtendedHeader{}, newError(KindMalformed, FourCCVP8X,
			"canvas %dx%d exceeds maximum area", h.CanvasWidth, h.CanvasHeight)
	}
	return h, nil
}

// ParseANIM decodes the animation parameters chunk.
func ParseANIM(data []byte) (AnimParams, error) {
	if len(data) < ANIMChunkSize {
		return AnimParams{}, newError(KindMalformed, FourCCANIM,
			"payload is %d bytes, need %d", len(data), ANIMChunkSize)
	}
	return AnimParams{
		BackgroundColor: binary.LittleEndian.Uint32(data[0:4]),
		LoopCount:       binary.LittleEndian.Uint16(data[4:6]),
	}, nil
}

// ParseANMF decodes the fixed frame header of an ANMF payload. The embedded
// frame data is only scanned for alpha; it is not validated.
func ParseANMF(data []byte) (FrameHeader, error) {
	if len(data) < ANMFChunkSize {
		return FrameHeader{}, newError(KindMalformed, FourCCANMF,
			"payload is %d bytes, frame header needs %d", len(data), ANMFChunkSize)
	}

	f := FrameHeader{
		XOffset:  2 * readLE24(data[0:3]),
		YOffset:  2 * readLE24(data[3:6]),
		Width:    1 + readLE24(data[6:9]),
		Height:   1 + readLE24(data[9:12]),
		Duration: readLE24(data[12:15]),
		Dispose:  data[15]&1 != 0,
		NoBlend:  data[15]&2 != 0,
	}
	f.HasAlpha = frameHasAlpha(data[ANMFChunkSize:])
	return f, nil
}

// frameHasAlpha scans ANMF frame data for an ALPH sub-chunk or a VP8L
// bitstream with its alpha bit set. It stops quietly at the first image
// bitstream or at anything it cannot walk.
func frameHasAlpha(frameData []byte) bool {
	w := NewWalker(frameData)
	for {
		c, err := w.Next()
		if err != nil {
			return false
		}
		switch c.Type {
		case ChunkALPH:
			return true
		case ChunkVP8L:
			h, err := ParseVP8LHeader(c.Payload)
			return err == nil && h.HasAlpha
		case ChunkVP8:
			return false
		}
	}
}
