// Package container validates the WebP/RIFF container format: the RIFF
// signature, the chunk sequence, and the feature chunks that carry image
// metadata (VP8, VP8L, VP8X, ALPH, ANIM, ANMF).
package container

// FourCC creates a FourCC value from four bytes (little-endian).
func FourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// Container FourCC values.
var (
	FourCCRIFF = FourCC('R', 'I', 'F', 'F')
	FourCCWEBP = FourCC('W', 'E', 'B', 'P')
	FourCCVP8  = FourCC('V', 'P', '8', ' ')
	FourCCVP8L = FourCC('V', 'P', '8', 'L')
	FourCCVP8X = FourCC('V', 'P', '8', 'X')
	FourCCALPH = FourCC('A', 'L', 'P', 'H')
	FourCCANIM = FourCC('A', 'N', 'I', 'M')
	FourCCANMF = FourCC('A', 'N', 'M', 'F')
	FourCCICCP = FourCC('I', 'C', 'C', 'P')
	FourCCEXIF = FourCC('E', 'X', 'I', 'F')
	FourCCXMP  = FourCC('X', 'M', 'P', ' ')
)

// VP8 format constants.
const (
	VP8Signature       = 0x9d012a // Start code in VP8 data
	VP8FrameHeaderSize = 10       // Size of the frame header within VP8 data
)

// VP8L format constants.
const (
	VP8LMagicByte       = 0x2f // VP8L signature byte
	VP8LImageSizeBits   = 14   // Number of bits used to store width and height
	VP8LVersion         = 0    // version 0
	VP8LFrameHeaderSize = 5    // Size of the VP8L frame header
)

// Container structure sizes.
const (
	TagSize         = 4  // Size of a chunk tag (e.g. "VP8L")
	ChunkHeaderSize = 8  // Size of a chunk header
	RIFFHeaderSize  = 12 // Size of the RIFF header ("RIFFnnnnWEBP")
	ANMFChunkSize   = 16 // Size of the fixed part of an ANMF payload
	ANIMChunkSize   = 6  // Size of an ANIM payload
	VP8XChunkSize   = 10 // Size of a VP8X payload
)

// Limits.
const (
	MaxCanvasSize = 1 << 24         // 24-bit max for VP8X width/height
	MaxImageArea  = uint64(1) << 32 // 32-bit max for width x height
)

// readLE24 reads a 24-bit little-endian integer from 3 bytes.
func readLE24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
