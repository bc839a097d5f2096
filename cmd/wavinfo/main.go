package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mattetti/wavinfo/internal/scan"
	"github.com/mattetti/wavinfo/internal/wav"
)

const VERSION = "1.0.0"

// stdout is swapped by tests
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface
var CLI struct {
	Debug   bool `name:"debug" short:"d" help:"Debug mode"`
	JSONLog bool `name:"json-log" help:"Log as JSON"`

	Formats FormatsCmd `cmd:"" help:"List the known WAVE format tags"`
	Inspect InspectCmd `cmd:"" help:"Print the fmt chunk of WAV files"`
	Scan    ScanCmd    `cmd:"" help:"Inspect every WAV file under the given paths"`
	Silence SilenceCmd `cmd:"" help:"Write a silent WAV file"`
	Version VersionCmd `cmd:"" help:"Display version information"`
}

// FormatsCmd lists the format tag table
type FormatsCmd struct{}

func (c *FormatsCmd) Run() error {
	for _, tag := range wav.FormatTags() {
		fmt.Fprintf(stdout, "0x%04x  %s\n", uint16(tag), tag)
	}
	return nil
}

// InspectCmd prints format details of individual files
type InspectCmd struct {
	Files []string `arg:"" required:"" help:"WAV files to inspect"`
}

func (c *InspectCmd) Run(log *logrus.Logger) error {
	s := scan.NewScanner(scan.Options{}, log)

	failed := 0
	for _, file := range c.Files {
		result, err := s.InspectFile(file)
		if err != nil {
			log.WithError(err).Errorf("cannot inspect %s", file)
			failed++
			continue
		}
		printResult(stdout, result)
		if result.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d file(s) unsupported or unreadable", failed, len(c.Files))
	}
	return nil
}

// ScanCmd walks directories and summarizes formats
type ScanCmd struct {
	Paths     []string `arg:"" required:"" help:"Files or directories to scan"`
	Recursive bool     `name:"recursive" short:"r" help:"Descend into subdirectories"`
	Ext       []string `name:"ext" help:"File extensions to include (default .wav,.wave)"`
}

func (c *ScanCmd) Run(log *logrus.Logger) error {
	s := scan.NewScanner(scan.Options{
		Recursive:  c.Recursive,
		Extensions: normalizeExtensions(c.Ext),
	}, log)

	startTime := time.Now()
	results, err := s.Walk(context.Background(), c.Paths)
	for _, result := range results {
		printResult(stdout, result)
	}

	counts := scan.Summary(results)
	tags := make([]wav.FormatTag, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

	fmt.Fprintf(stdout, "\n%d file(s) in %.2fs\n", len(results), time.Since(startTime).Seconds())
	for _, tag := range tags {
		fmt.Fprintf(stdout, "  %-18s %d\n", tag, counts[tag])
	}

	if err != nil {
		return errors.Wrap(err, "scan finished with errors")
	}
	return nil
}

// SilenceCmd writes a WAV file of digital silence
type SilenceCmd struct {
	Output   string  `arg:"" help:"Output file"`
	Format   string  `name:"format" short:"f" default:"PCM" help:"Format tag name (PCM, IEEE_FLOAT, ALAW, MULAW)"`
	Channels uint16  `name:"channels" short:"c" default:"1" help:"Number of channels"`
	Rate     uint32  `name:"rate" short:"r" default:"44100" help:"Sample rate in Hz"`
	Bits     uint16  `name:"bits" short:"b" default:"16" help:"Bits per sample"`
	Seconds  float64 `name:"seconds" short:"s" default:"1" help:"Duration in seconds"`
}

func (c *SilenceCmd) Run(log *logrus.Logger) error {
	format, ok := wav.LookupFormat(c.Format)
	if !ok {
		return errors.Errorf("unknown format %q", c.Format)
	}
	data, err := silence(format, c.Channels, c.Rate, c.Bits, c.Seconds)
	if err != nil {
		return err
	}

	h := wav.NewHeader(format, c.Channels, c.Rate, c.Bits, uint32(len(data)))
	dir, name := filepath.Split(c.Output)
	if dir == "" {
		dir = "."
	}
	out, err := wav.NewEncoder(false, "").WriteFile(dir, name, h, data)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"file":   filepath.Join(dir, out),
		"format": format.String(),
		"bytes":  len(data),
	}).Debug("wrote silence")
	fmt.Fprintf(stdout, "Wrote %s (%s)\n", filepath.Join(dir, out), humanize.Bytes(uint64(len(data)+44)))
	return nil
}

// VersionCmd prints version information
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "wavinfo version %s\n", VERSION)
	return nil
}

// silence returns the bytes of a silent signal in the given encoding
func silence(format wav.FormatTag, channels uint16, rate uint32, bits uint16, seconds float64) ([]byte, error) {
	if channels == 0 || rate == 0 {
		return nil, errors.New("channels and rate must be positive")
	}
	if seconds < 0 {
		return nil, errors.New("duration must not be negative")
	}

	var fill byte
	switch format {
	case wav.FormatPCM:
		if bits%8 != 0 || bits == 0 || bits > 32 {
			return nil, errors.Errorf("PCM needs 8, 16, 24 or 32 bits, got %d", bits)
		}
		if bits == 8 {
			fill = 0x80
		}
	case wav.FormatIEEEFloat:
		if bits != 32 && bits != 64 {
			return nil, errors.Errorf("IEEE_FLOAT needs 32 or 64 bits, got %d", bits)
		}
	case wav.FormatALaw, wav.FormatMuLaw:
		if bits != 8 {
			return nil, errors.Errorf("%s needs 8 bits, got %d", format, bits)
		}
		fill = 0xd5
		if format == wav.FormatMuLaw {
			fill = 0xff
		}
	default:
		return nil, errors.Wrapf(wav.ErrUnsupportedFormat, "cannot encode %s", format)
	}

	frames := int(math.Round(seconds * float64(rate)))
	data := make([]byte, frames*int(channels)*int(bits/8))
	if fill != 0 {
		for i := range data {
			data[i] = fill
		}
	}
	return data, nil
}

func printResult(w io.Writer, r *scan.Result) {
	f := r.Info.Fmt
	status := "ok"
	if r.Err != nil {
		status = "unsupported"
	}
	fmt.Fprintf(w, "%s: %s (0x%04x) %dch %dHz %dbit data=%s dur=%s [%s]\n",
		r.Path, r.Format(), uint16(f.FormatTag), f.NumChannels, f.SampleRate, f.BitsPerSample,
		humanize.Bytes(uint64(r.Info.DataSize)), r.Info.Duration().Round(time.Millisecond), status)
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		out = append(out, strings.ToLower(e))
	}
	return out
}

func newLogger(debug, jsonLog bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if jsonLog {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("wavinfo"),
		kong.Description("Inspect and write RIFF/WAVE files by format tag"),
		kong.UsageOnError(),
	)

	err := ctx.Run(newLogger(CLI.Debug, CLI.JSONLog))
	ctx.FatalIfErrorf(err)
}
