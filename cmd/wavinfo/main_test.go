package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattetti/wavinfo/internal/wav"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	old := stdout
	stdout = buf
	t.Cleanup(func() { stdout = old })
	return buf
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestFormatsCmd_Run(t *testing.T) {
	out := captureStdout(t)
	require.NoError(t, (&FormatsCmd{}).Run())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(wav.FormatTags()))
	assert.Equal(t, "0x0000  UNKNOWN", lines[0])
	assert.Contains(t, out.String(), "0x0055  MPEGLAYER3\n")
	assert.Equal(t, "0xfffe  EXTENSIBLE", lines[len(lines)-1])
}

func TestSilenceAndInspect(t *testing.T) {
	dir := t.TempDir()
	out := captureStdout(t)
	path := filepath.Join(dir, "quiet.wav")

	cmd := &SilenceCmd{Output: path, Format: "mulaw", Channels: 2, Rate: 8000, Bits: 8, Seconds: 0.5}
	require.NoError(t, cmd.Run(testLogger()))
	assert.Contains(t, out.String(), "Wrote ")

	f, err := os.Open(path)
	require.NoError(t, err)
	info, err := wav.ReadInfo(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, wav.FormatMuLaw, info.Fmt.FormatTag)
	assert.EqualValues(t, 8000, info.DataSize)

	out.Reset()
	require.NoError(t, (&InspectCmd{Files: []string{path}}).Run(testLogger()))
	assert.Contains(t, out.String(), "MULAW (0x0007) 2ch 8000Hz 8bit")
	assert.Contains(t, out.String(), "dur=500ms [ok]")
}

func TestInspectCmd_Run_Missing(t *testing.T) {
	captureStdout(t)
	err := (&InspectCmd{Files: []string{filepath.Join(t.TempDir(), "missing.wav")}}).Run(testLogger())
	assert.Error(t, err)
}

func TestScanCmd_Run(t *testing.T) {
	dir := t.TempDir()
	out := captureStdout(t)

	for _, c := range []SilenceCmd{
		{Output: filepath.Join(dir, "a.wav"), Format: "PCM", Channels: 1, Rate: 8000, Bits: 16, Seconds: 0.1},
		{Output: filepath.Join(dir, "b.wav"), Format: "PCM", Channels: 1, Rate: 8000, Bits: 8, Seconds: 0.1},
		{Output: filepath.Join(dir, "c.wav"), Format: "IEEE_FLOAT", Channels: 1, Rate: 8000, Bits: 32, Seconds: 0.1},
	} {
		c := c
		require.NoError(t, c.Run(testLogger()))
	}
	out.Reset()

	require.NoError(t, (&ScanCmd{Paths: []string{dir}, Ext: []string{"WAV"}}).Run(testLogger()))
	assert.Contains(t, out.String(), "3 file(s)")
	assert.Regexp(t, `PCM\s+2\n`, out.String())
	assert.Regexp(t, `IEEE_FLOAT\s+1\n`, out.String())
}

func TestSilence(t *testing.T) {
	data, err := silence(wav.FormatPCM, 1, 100, 8, 0.1)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0x80}, 10), data)

	data, err = silence(wav.FormatALaw, 1, 100, 8, 0.1)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xd5}, 10), data)

	data, err = silence(wav.FormatIEEEFloat, 2, 100, 32, 0.1)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 80), data)

	_, err = silence(wav.FormatMuLaw, 1, 100, 16, 1)
	assert.Error(t, err)

	_, err = silence(wav.FormatPCM, 0, 100, 16, 1)
	assert.Error(t, err)

	_, err = silence(wav.FormatGSM610, 1, 8000, 0, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wav.ErrUnsupportedFormat))
}

func TestSilenceCmd_Run_UnknownFormat(t *testing.T) {
	err := (&SilenceCmd{Output: filepath.Join(t.TempDir(), "x.wav"), Format: "OGG"}).Run(testLogger())
	assert.Error(t, err)
}

func TestNormalizeExtensions(t *testing.T) {
	assert.Equal(t, []string{".wav", ".bwf"}, normalizeExtensions([]string{"WAV", "", ".BWF"}))
}
