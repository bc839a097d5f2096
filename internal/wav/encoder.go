package wav

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const canonicalFmtSize = 16

// Encoder writes WAV files with a canonical 44-byte header
type Encoder struct {
	noWrite bool
	prefix  string // Prepended to output file names as "<prefix> - <name>.wav"
}

// NewEncoder creates a new WAV encoder
func NewEncoder(noWrite bool, prefix string) *Encoder {
	return &Encoder{
		noWrite: noWrite,
		prefix:  prefix,
	}
}

// Encodable reports whether NewHeader can describe the format. Other tags
// need a fmt extension this encoder does not write.
func Encodable(format FormatTag) bool {
	switch format {
	case FormatPCM, FormatIEEEFloat, FormatALaw, FormatMuLaw:
		return true
	}
	return false
}

// NewHeader builds the header for dataSize bytes of audio in the given format
func NewHeader(format FormatTag, numChannels uint16, sampleRate uint32, bitsPerSample uint16, dataSize uint32) Header {
	blockAlign := numChannels * bitsPerSample / 8
	return Header{
		RiffID:        riffID,
		FileSize:      4 + (8 + canonicalFmtSize) + (8 + dataSize + dataSize%2),
		WaveID:        waveID,
		FmtID:         fmtID,
		FmtSize:       canonicalFmtSize,
		AudioFormat:   format,
		NumChannels:   numChannels,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: bitsPerSample,
		DataID:        dataID,
		DataSize:      dataSize,
	}
}

var (
	riffID = [4]byte{'R', 'I', 'F', 'F'}
	waveID = [4]byte{'W', 'A', 'V', 'E'}
	fmtID  = [4]byte{'f', 'm', 't', ' '}
	dataID = [4]byte{'d', 'a', 't', 'a'}
)

// Write writes the header and audio data to w
func (e *Encoder) Write(w io.Writer, h Header, data []byte) error {
	if !Encodable(h.AudioFormat) {
		return errors.Wrapf(ErrUnsupportedFormat, "cannot encode %s", h.AudioFormat)
	}
	if h.NumChannels == 0 || h.BitsPerSample == 0 {
		return errors.Errorf("invalid header: %d channels, %d bits per sample", h.NumChannels, h.BitsPerSample)
	}
	if int(h.DataSize) != len(data) {
		return errors.Errorf("header data size %d does not match %d bytes of audio", h.DataSize, len(data))
	}

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "error writing WAV header")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "error writing audio data")
	}
	if len(data)%2 == 1 {
		if _, err := w.Write([]byte{0}); err != nil {
			return errors.Wrap(err, "error writing pad byte")
		}
	}
	return nil
}

// WriteFile writes a WAV file into outputDir and returns the file name used
func (e *Encoder) WriteFile(outputDir, name string, h Header, data []byte) (string, error) {
	baseName := cleanFilename(strings.TrimSuffix(name, filepath.Ext(name)))
	if baseName == "" {
		baseName = "untitled"
	}

	var outputFilename string
	if e.prefix != "" {
		outputFilename = e.prefix + " - " + baseName + ".wav"
	} else {
		outputFilename = baseName + ".wav"
	}

	if e.noWrite {
		return outputFilename, nil
	}

	file, err := os.Create(filepath.Join(outputDir, outputFilename))
	if err != nil {
		return "", errors.Wrap(err, "error creating output file")
	}
	defer file.Close()

	if err := e.Write(file, h, data); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", errors.Wrap(err, "error closing output file")
	}

	return outputFilename, nil
}

// Interleave merges two planar channels (LLLL...RRRR...) into interleaved
// stereo (LRLRLR...). sampleBytes is the width of one sample. A short right
// channel is padded with silence.
func Interleave(channel1, channel2 []byte, sampleBytes int) []byte {
	if sampleBytes <= 0 {
		return nil
	}
	numSamples := len(channel1) / sampleBytes
	result := make([]byte, numSamples*2*sampleBytes)

	for i := 0; i < numSamples; i++ {
		src := i * sampleBytes
		dst := i * 2 * sampleBytes
		copy(result[dst:dst+sampleBytes], channel1[src:src+sampleBytes])
		if src+sampleBytes <= len(channel2) {
			copy(result[dst+sampleBytes:dst+2*sampleBytes], channel2[src:src+sampleBytes])
		}
	}

	return result
}

var invalidFilenameChars = regexp.MustCompile(`[^0-9a-zA-Z\.,%\-_#]+`)

// cleanFilename removes invalid characters from a filename (Windows-safe)
func cleanFilename(filename string) string {
	return invalidFilenameChars.ReplaceAllString(filename, "_")
}
