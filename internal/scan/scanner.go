package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mattetti/wavinfo/internal/wav"
)

// DefaultExtensions are the file extensions scanned when Options.Extensions is empty
var DefaultExtensions = []string{".wav", ".wave"}

// Options represents the scan options
type Options struct {
	Recursive  bool
	Extensions []string // Lower-case, with the leading dot
}

// Result is the outcome of inspecting one file
type Result struct {
	Path string
	Size int64
	Info *wav.Info
	Err  error // Unsupported format, otherwise nil
}

// Format returns the effective format tag of the file
func (r *Result) Format() wav.FormatTag {
	if r.Info == nil {
		return wav.FormatUnknown
	}
	return r.Info.EffectiveFormat()
}

// Scanner inspects WAV files and reports their formats
type Scanner struct {
	options Options
	log     *logrus.Logger
}

// NewScanner creates a new scanner. A nil logger uses the logrus standard logger.
func NewScanner(options Options, log *logrus.Logger) *Scanner {
	if len(options.Extensions) == 0 {
		options.Extensions = DefaultExtensions
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scanner{
		options: options,
		log:     log,
	}
}

// InspectFile reads the headers of a single WAV file. A file that parses
// but carries an unsupported format tag is returned with Result.Err set
// and a nil error.
func (s *Scanner) InspectFile(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening file")
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "error getting file info")
	}

	info, err := wav.ReadInfo(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", filepath.Base(path))
	}

	result := &Result{
		Path: path,
		Size: fileInfo.Size(),
		Info: info,
		Err:  info.CheckSupported(),
	}

	s.log.WithFields(logrus.Fields{
		"file":     path,
		"format":   result.Format().String(),
		"channels": info.Fmt.NumChannels,
		"rate":     info.Fmt.SampleRate,
	}).Debug("inspected")

	return result, nil
}

// Walk inspects every matching file under paths. Directories are expanded,
// recursively when Options.Recursive is set. Files that fail to parse are
// skipped and reported in the returned multierror; the results of every
// other file are still returned.
func (s *Scanner) Walk(ctx context.Context, paths []string) ([]*Result, error) {
	var errs *multierror.Error

	files, err := s.collect(paths)
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	s.log.Debugf("planning to inspect %d file(s)", len(files))
	startTime := time.Now()

	results := make([]*Result, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}

		result, err := s.InspectFile(file)
		if err != nil {
			s.log.WithError(err).Warnf("skipping %s", file)
			errs = multierror.Append(errs, errors.Wrap(err, file))
			continue
		}
		results = append(results, result)
	}

	s.log.Debugf("inspected %d/%d files in %.2fs", len(results), len(files), time.Since(startTime).Seconds())

	return results, errs.ErrorOrNil()
}

// collect expands paths into a sorted list of matching files
func (s *Scanner) collect(paths []string) ([]string, error) {
	var errs *multierror.Error
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "error accessing path"))
			continue
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				if p != path && !s.options.Recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if s.matches(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "error scanning directory"))
		}
	}

	sort.Strings(files)
	return files, errs.ErrorOrNil()
}

func (s *Scanner) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.options.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Summary counts files per effective format tag
func Summary(results []*Result) map[wav.FormatTag]int {
	counts := make(map[wav.FormatTag]int)
	for _, r := range results {
		counts[r.Format()]++
	}
	return counts
}
