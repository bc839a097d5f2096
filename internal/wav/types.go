package wav

import (
	"time"

	"github.com/pkg/errors"
)

// Header represents the canonical 44-byte header of a WAV file with a
// single fmt chunk followed by the data chunk
type Header struct {
	// RIFF header
	RiffID   [4]byte // "RIFF"
	FileSize uint32  // 4 + (8 + FmtSize) + (8 + DataSize)
	WaveID   [4]byte // "WAVE"

	// fmt sub-chunk
	FmtID         [4]byte   // "fmt "
	FmtSize       uint32    // 16
	AudioFormat   FormatTag // e.g. FormatPCM
	NumChannels   uint16    // 1 for mono, 2 for stereo
	SampleRate    uint32    // e.g., 44100
	ByteRate      uint32    // SampleRate * NumChannels * BitsPerSample/8
	BlockAlign    uint16    // NumChannels * BitsPerSample/8
	BitsPerSample uint16    // 8, 16, etc.

	// data sub-chunk
	DataID   [4]byte // "data"
	DataSize uint32  // NumSamples * NumChannels * BitsPerSample/8
}

// FmtChunk holds the decoded fields of a fmt chunk
type FmtChunk struct {
	Size          uint32
	FormatTag     FormatTag
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	ExtraSize     uint16      // cbSize, present when Size >= 18
	Extensible    *Extensible // set for FormatExtensible with cbSize >= 22
}

// Extensible holds the WAVE_FORMAT_EXTENSIBLE extension of a fmt chunk
type Extensible struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

// Info is what ReadInfo learns about a WAV stream
type Info struct {
	Fmt      FmtChunk
	DataSize uint32
	HasData  bool
	Chunks   []string // chunk IDs in file order
}

// EffectiveFormat returns the sub-format tag of an extensible fmt chunk and
// the plain format tag otherwise
func (i *Info) EffectiveFormat() FormatTag {
	if i.Fmt.FormatTag == FormatExtensible && i.Fmt.Extensible != nil {
		sf := i.Fmt.Extensible.SubFormat
		return FormatTag(uint16(sf[0]) | uint16(sf[1])<<8)
	}
	return i.Fmt.FormatTag
}

// Duration returns the playing time of the data chunk
func (i *Info) Duration() time.Duration {
	if i.Fmt.ByteRate == 0 {
		return 0
	}
	return time.Duration(float64(i.DataSize) / float64(i.Fmt.ByteRate) * float64(time.Second))
}

// CheckSupported returns ErrUnsupportedFormat when the effective format
// has no entry in the format table. UNKNOWN and an extensible chunk without
// a sub-format are unsupported too.
func (i *Info) CheckSupported() error {
	tag := i.EffectiveFormat()
	if !tag.Known() || tag == FormatUnknown || tag == FormatExtensible {
		return errors.Wrapf(ErrUnsupportedFormat, "format tag %s", tag)
	}
	return nil
}
