package container

import "encoding/binary"

// RIFFHeader holds the parsed RIFF container header.
type RIFFHeader struct {
	FileSize uint32 // declared RIFF size (excluding the 8-byte "RIFF"+size prefix)
}

// End returns the offset one past the last byte covered by the declared
// RIFF size.
func (h RIFFHeader) End() uint64 {
	return uint64(h.FileSize) + ChunkHeaderSize
}

// ParseRIFFHeader validates the 12-byte RIFF/WEBP signature of data.
// Returns the header and the number of bytes consumed.
//
// Only the signature is checked here. A declared size that disagrees with
// len(data) is left to the caller.
func ParseRIFFHeader(data []byte) (RIFFHeader, int, error) {
	if len(data) < RIFFHeaderSize {
		return RIFFHeader{}, 0, newError(KindSignature, 0,
			"need %d bytes for RIFF header, have %d", RIFFHeaderSize, len(data))
	}

	riffTag := binary.LittleEndian.Uint32(data[0:4])
	if riffTag != FourCCRIFF {
		return RIFFHeader{}, 0, newError(KindSignature, 0,
			"missing RIFF signature (got %q)", printable(data[0:4]))
	}

	webpTag := binary.LittleEndian.Uint32(data[8:12])
	if webpTag != FourCCWEBP {
		return RIFFHeader{}, 0, newError(KindSignature, 0,
			"RIFF form type is %q, not WEBP", printable(data[8:12]))
	}

	fileSize := binary.LittleEndian.Uint32(data[4:8])
	return RIFFHeader{FileSize: fileSize}, RIFFHeaderSize, nil
}

// ReadChunkHeader reads a chunk's FourCC tag and payload size from data.
func ReadChunkHeader(data []byte) (fourcc uint32, payloadSize uint32, err error) {
	if len(data) < ChunkHeaderSize {
		return 0, 0, newError(KindTruncated, 0,
			"truncated chunk header: need %d bytes, have %d", ChunkHeaderSize, len(data))
	}
	fourcc = binary.LittleEndian.Uint32(data[0:4])
	payloadSize = binary.LittleEndian.Uint32(data[4:8])
	return fourcc, payloadSize, nil
}

// PaddedSize returns the payload size padded to an even number of bytes,
// as required by the RIFF format.
func PaddedSize(size uint32) uint64 {
	return uint64(size) + uint64(size&1)
}

// FourCCString returns a human-readable string for a FourCC value.
func FourCCString(fourcc uint32) string {
	b := [4]byte{
		byte(fourcc),
		byte(fourcc >> 8),
		byte(fourcc >> 16),
		byte(fourcc >> 24),
	}
	return printable(b[:])
}

// printable replaces non-printable bytes so tags from arbitrary input are
// safe to embed in messages.
func printable(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		out[i] = c
	}
	return string(out)
}
