// Package audio provides encoding of raw PCM samples into playable audio
// containers. Speech synthesis backends return headerless little-endian
// 16-bit mono PCM; this package wraps that data into a standard WAV file.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultSampleRate is the sample rate produced by the speech synthesis
// backend when no rate is negotiated explicitly.
const DefaultSampleRate = 24000

// ContentTypeWAV is the MIME type for WAV responses.
const ContentTypeWAV = "audio/wav"

// headerSize is the fixed size of the canonical PCM WAV header: the RIFF
// chunk descriptor (12 bytes), the fmt sub-chunk (24 bytes) and the data
// sub-chunk preamble (8 bytes).
const headerSize = 44

// Fixed format parameters. The synthesis backend always emits mono 16-bit
// samples, so these are not configurable.
const (
	numChannels   = 1
	bitsPerSample = 16
)

var (
	// ErrShortData is returned when parsing input smaller than a WAV header.
	ErrShortData = errors.New("audio: data shorter than WAV header")

	// ErrNotWAV is returned when the RIFF/WAVE magic bytes are missing.
	ErrNotWAV = errors.New("audio: not a RIFF/WAVE stream")

	// ErrUnsupportedFormat is returned when the fmt chunk describes a
	// layout other than uncompressed mono 16-bit PCM.
	ErrUnsupportedFormat = errors.New("audio: unsupported WAV format")
)

// Format describes the PCM layout recovered from a WAV header.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
	DataSize   int
}

// EncodeWAV wraps raw little-endian 16-bit mono PCM samples in a WAV
// container with the given sample rate. A non-positive sampleRate falls
// back to DefaultSampleRate. Empty input yields a valid zero-length file.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	out := make([]byte, headerSize+len(pcm))

	// RIFF chunk descriptor.
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	// fmt sub-chunk: 16-byte body, audio format 1 (uncompressed PCM).
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1)
	binary.LittleEndian.PutUint16(out[22:24], numChannels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)

	// data sub-chunk.
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[44:], pcm)

	return out
}

// ParseWAVHeader validates the canonical 44-byte header produced by
// EncodeWAV and returns the format it describes.
func ParseWAVHeader(data []byte) (Format, error) {
	if len(data) < headerSize {
		return Format{}, ErrShortData
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Format{}, ErrNotWAV
	}
	if string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		return Format{}, fmt.Errorf("%w: unexpected chunk layout", ErrUnsupportedFormat)
	}

	audioFormat := binary.LittleEndian.Uint16(data[20:22])
	channels := binary.LittleEndian.Uint16(data[22:24])
	bits := binary.LittleEndian.Uint16(data[34:36])
	if audioFormat != 1 || channels != numChannels || bits != bitsPerSample {
		return Format{}, fmt.Errorf(
			"%w: format=%d channels=%d bits=%d",
			ErrUnsupportedFormat, audioFormat, channels, bits,
		)
	}

	return Format{
		SampleRate: int(binary.LittleEndian.Uint32(data[24:28])),
		Channels:   int(channels),
		BitDepth:   int(bits),
		DataSize:   int(binary.LittleEndian.Uint32(data[40:44])),
	}, nil
}
