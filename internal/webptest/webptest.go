// Package webptest assembles small WebP containers for tests. Bitstreams
// carry valid headers only; their pixel data is filler.
package webptest

import (
	"encoding/binary"

	"github.com/deepteams/webpcheck/internal/container"
)

// VP8X flag bits, re-exported for building extended headers.
const (
	FlagAnimation = container.AnimationFlag
	FlagXMP       = container.XMPFlag
	FlagEXIF      = container.EXIFFlag
	FlagAlpha     = container.AlphaFlag
	FlagICCP      = container.ICCPFlag
)

// VP8 returns a lossy keyframe bitstream of the given size.
func VP8(width, height int) []byte {
	b := make([]byte, container.VP8FrameHeaderSize+6)
	b[0] = 0x10 // keyframe, show_frame
	b[3] = 0x9d
	b[4] = 0x01
	b[5] = 0x2a
	binary.LittleEndian.PutUint16(b[6:8], uint16(width))
	binary.LittleEndian.PutUint16(b[8:10], uint16(height))
	return b
}

// VP8L returns a lossless bitstream of the given size.
func VP8L(width, height int, alpha bool) []byte {
	b := make([]byte, container.VP8LFrameHeaderSize+4)
	b[0] = container.VP8LMagicByte
	bits := uint32(width-1) | uint32(height-1)<<14
	if alpha {
		bits |= 1 << 28
	}
	binary.LittleEndian.PutUint32(b[1:5], bits)
	return b
}

// Chunk returns a chunk with header, payload and padding byte.
func Chunk(tag string, payload []byte) []byte {
	size := len(payload)
	out := make([]byte, container.ChunkHeaderSize+size+size&1)
	copy(out[0:4], tag)
	binary.LittleEndian.PutUint32(out[4:8], uint32(size))
	copy(out[container.ChunkHeaderSize:], payload)
	return out
}

// RIFF wraps chunks in a RIFF/WEBP header with a correct size field.
func RIFF(chunks ...[]byte) []byte {
	body := Concat(chunks...)
	out := make([]byte, container.RIFFHeaderSize, container.RIFFHeaderSize+len(body))
	binary.LittleEndian.PutUint32(out[0:4], container.FourCCRIFF)
	binary.LittleEndian.PutUint32(out[4:8], uint32(4+len(body)))
	binary.LittleEndian.PutUint32(out[8:12], container.FourCCWEBP)
	return append(out, body...)
}

// VP8X returns an extended header chunk.
func VP8X(flags uint8, width, height int) []byte {
	p := make([]byte, container.VP8XChunkSize)
	p[0] = flags
	putLE24(p[4:7], width-1)
	putLE24(p[7:10], height-1)
	return Chunk("VP8X", p)
}

// ANIM returns an animation parameters chunk.
func ANIM(background uint32, loops uint16) []byte {
	p := make([]byte, container.ANIMChunkSize)
	binary.LittleEndian.PutUint32(p[0:4], background)
	binary.LittleEndian.PutUint16(p[4:6], loops)
	return Chunk("ANIM", p)
}

// ANMF returns a frame chunk whose payload is the 16-byte frame header
// followed by the given sub-chunks.
func ANMF(width, height, durationMS int, subChunks ...[]byte) []byte {
	hdr := make([]byte, container.ANMFChunkSize)
	putLE24(hdr[6:9], width-1)
	putLE24(hdr[9:12], height-1)
	putLE24(hdr[12:15], durationMS)
	return Chunk("ANMF", Concat(append([][]byte{hdr}, subChunks...)...))
}

// StaticLossy returns a simple-format VP8 file.
func StaticLossy(width, height int) []byte {
	return RIFF(Chunk("VP8 ", VP8(width, height)))
}

// StaticLossless returns a simple-format VP8L file.
func StaticLossless(width, height int, alpha bool) []byte {
	return RIFF(Chunk("VP8L", VP8L(width, height, alpha)))
}

// ExtendedStill returns a VP8X still image with a lossy bitstream and,
// when alpha is set, an ALPH chunk.
func ExtendedStill(width, height int, alpha bool) []byte {
	var flags uint8
	var alph []byte
	if alpha {
		flags |= FlagAlpha
		alph = Chunk("ALPH", []byte{0, 0xff, 0xff})
	}
	return RIFF(VP8X(flags, width, height), alph, Chunk("VP8 ", VP8(width, height)))
}

// Animated returns a VP8X animated file with the given number of frames.
// With alpha set, the alpha flag is raised and every frame carries an ALPH
// sub-chunk.
func Animated(width, height, frames int, alpha bool) []byte {
	flags := FlagAnimation
	if alpha {
		flags |= FlagAlpha
	}
	chunks := [][]byte{VP8X(flags, width, height), ANIM(0xffffffff, 0)}
	for i := 0; i < frames; i++ {
		sub := [][]byte{}
		if alpha {
			sub = append(sub, Chunk("ALPH", []byte{0, 0x80, 0x80}))
		}
		sub = append(sub, Chunk("VP8 ", VP8(width, height)))
		chunks = append(chunks, ANMF(width, height, 100, sub...))
	}
	return RIFF(chunks...)
}

// JPEG returns the start of a baseline JPEG stream, as found in a JPEG file
// renamed to .webp.
func JPEG() []byte {
	return []byte{
		0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01,
		0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0xff, 0xd9,
	}
}

// PNG returns a PNG signature and IHDR chunk.
func PNG() []byte {
	return []byte{
		0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
		0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
		0x08, 0x06, 0x00, 0x00, 0x00,
	}
}

// Concat joins byte slices.
func Concat(slices ...[]byte) []byte {
	total := 0
	for _, s := range slices {
		total += len(s)
	}
	out := make([]byte, 0, total)
	for _, s := range slices {
		out = append(out, s...)
	}
	return out
}

// putLE24 writes a 24-bit little-endian value into buf[0:3].
func putLE24(buf []byte, v int) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
}
