package dump

import (
	"errors"
	"io"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/retroenv/siddump/internal/options"
)

func TestTimeColumn(t *testing.T) {
	tests := []struct {
		time     int
		seconds  bool
		expected string
	}{
		{0, false, "|     0 | "},
		{12345, false, "| 12345 | "},
		{0, true, "|0:00.00| "},
		{51, true, "|0:01.01| "},
		{3050, true, "|1:01.00| "},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TimeColumn(tt.time, tt.seconds))
	}
}

func TestFileName(t *testing.T) {
	opts := options.NewOutput()
	opts.Source = "music.sid"
	assert.Equal(t, "music.sid.dmp", FileName(opts, ".dmp"))

	opts.Output = "out.bin"
	assert.Equal(t, "out.bin", FileName(opts, ".dmp"))
}

type failCloser struct{}

func (failCloser) Write(p []byte) (int, error) { return len(p), nil }
func (failCloser) Close() error                { return errors.New("close failed") }

func TestOpen(t *testing.T) {
	opts := options.NewOutput()
	_, err := Open(opts, "x")
	assert.Error(t, err)

	errCreate := errors.New("denied")
	opts.Create = func(name string) (io.WriteCloser, error) {
		return nil, errCreate
	}
	_, err = Open(opts, "x")
	assert.True(t, errors.Is(err, errCreate))
	assert.ErrorContains(t, err, "creating output 'x'")

	opts.Create = func(name string) (io.WriteCloser, error) {
		return failCloser{}, nil
	}
	out, err := Open(opts, "x")
	assert.NoError(t, err)
	assert.Equal(t, "x", out.Name())
	assert.ErrorContains(t, out.Close(), "close failed")
}
