package wav

import (
	"encoding/binary"
	"io"

	"github.com/go-audio/riff"
	"github.com/pkg/errors"
)

var (
	// ErrNotRIFF is returned when a stream does not start with "RIFF"
	ErrNotRIFF = errors.New("not a RIFF file")
	// ErrNotWAVE is returned when the RIFF form type is not "WAVE"
	ErrNotWAVE = errors.New("not a WAVE file")
	// ErrNoFmtChunk is returned when the stream ends before a fmt chunk
	ErrNoFmtChunk = errors.New("fmt chunk not found")
	// ErrShortFmtChunk is returned when the fmt chunk is smaller than 16 bytes
	ErrShortFmtChunk = errors.New("fmt chunk too short")
	// ErrUnsupportedFormat is returned for format tags missing from the table
	ErrUnsupportedFormat = errors.New("unsupported format")
)

const (
	minFmtSize        = 16
	extensibleExtSize = 22
)

// ReadInfo reads the RIFF header and chunk list of a WAV stream until both
// the fmt and data chunks have been seen. Sample data is not read.
func ReadInfo(r io.Reader) (*Info, error) {
	p := riff.New(r)

	id, size, err := p.IDnSize()
	if err != nil {
		return nil, errors.Wrap(err, "error reading RIFF header")
	}
	if id != riff.RiffID {
		return nil, errors.Wrapf(ErrNotRIFF, "got %q", id[:])
	}
	p.ID, p.Size = id, size

	if err := binary.Read(r, binary.BigEndian, &p.Format); err != nil {
		return nil, errors.Wrap(err, "error reading form type")
	}
	if p.Format != riff.WavFormatID {
		return nil, errors.Wrapf(ErrNotWAVE, "got %q", p.Format[:])
	}

	info := &Info{}
	hasFmt := false
	for !(hasFmt && info.HasData) {
		id, size, err := p.IDnSize()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "error reading chunk header")
		}
		info.Chunks = append(info.Chunks, string(id[:]))

		// chunks are word aligned; the pad byte is not part of size
		padded := size
		if padded%2 == 1 {
			padded++
		}
		chunk := &riff.Chunk{
			ID:   id,
			Size: int(padded),
			R:    io.LimitReader(r, int64(padded)),
		}

		switch id {
		case riff.FmtID:
			if hasFmt {
				chunk.Drain()
				continue
			}
			if err := readFmtChunk(chunk, size, &info.Fmt); err != nil {
				return nil, err
			}
			hasFmt = true
		case riff.DataFormatID:
			info.DataSize = size
			info.HasData = true
			if !hasFmt {
				chunk.Drain()
			}
		default:
			chunk.Drain()
		}
	}

	if !hasFmt {
		return nil, ErrNoFmtChunk
	}
	return info, nil
}

func readFmtChunk(chunk *riff.Chunk, size uint32, f *FmtChunk) error {
	if size < minFmtSize {
		return errors.Wrapf(ErrShortFmtChunk, "%d bytes", size)
	}
	f.Size = size

	fields := []struct {
		name string
		dst  interface{}
	}{
		{"format tag", &f.FormatTag},
		{"channels", &f.NumChannels},
		{"sample rate", &f.SampleRate},
		{"byte rate", &f.ByteRate},
		{"block align", &f.BlockAlign},
		{"bits per sample", &f.BitsPerSample},
	}
	for _, field := range fields {
		if err := chunk.ReadLE(field.dst); err != nil {
			return errors.Wrapf(err, "error reading %s", field.name)
		}
	}

	if size >= minFmtSize+2 {
		if err := chunk.ReadLE(&f.ExtraSize); err != nil {
			return errors.Wrap(err, "error reading fmt extension size")
		}
		if f.FormatTag == FormatExtensible && f.ExtraSize >= extensibleExtSize &&
			size >= minFmtSize+2+extensibleExtSize {
			ext := &Extensible{}
			if err := chunk.ReadLE(ext); err != nil {
				return errors.Wrap(err, "error reading extensible fmt fields")
			}
			f.Extensible = ext
		}
	}

	chunk.Drain()
	return nil
}
