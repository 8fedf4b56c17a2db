package registers

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/retroenv/siddump/internal/dump"
	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/sid"
)

type bufferCloser struct {
	bytes.Buffer
}

func (b *bufferCloser) Close() error {
	return nil
}

func render(t *testing.T, f dump.Formatter, opts options.Output, frames [][]byte) []string {
	t.Helper()

	var buf bufferCloser
	opts.Create = func(name string) (io.WriteCloser, error) {
		assert.Equal(t, "", name)
		return &buf, nil
	}

	assert.NoError(t, f.Configure(opts))
	assert.NoError(t, f.Before())
	state := sid.New(opts.Duration(), 0)
	for _, mem := range frames {
		state.Update(mem)
		assert.NoError(t, f.PerFrame(state))
		state.Tick()
	}
	assert.NoError(t, f.After())

	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestTable(t *testing.T) {
	first := make([]byte, sid.MemorySize)
	first[sid.BaseAddress+4] = 0x41
	second := bytes.Clone(first)
	second[sid.BaseAddress+4] = 0x40
	second[sid.BaseAddress+0x18] = 0x0f

	lines := render(t, New(), options.NewOutput(), [][]byte{first, second, second})
	assert.Equal(t, 5, len(lines))
	assert.Equal(t, header, lines[0])
	assert.Equal(t, separator, lines[1])
	assert.Equal(t, "|     0 | 00 00 00 00 41 00 00 | 00 00 00 00 00 00 00 | 00 00 00 00 00 00 00 | 00 00 00 00 |  4E20 |", lines[2])
	assert.Equal(t, "|     1 | .. .. .. .. 40 .. .. | .. .. .. .. .. .. .. | .. .. .. .. .. .. .. | .. .. .. 0F |  4E20 |", lines[3])
	assert.Equal(t, "|     2 | .. .. .. .. .. .. .. | .. .. .. .. .. .. .. | .. .. .. .. .. .. .. | .. .. .. .. |  4E20 |", lines[4])

	for _, line := range lines {
		assert.Equal(t, len(lines[0]), len(line))
	}
}

func TestTableTimeSeconds(t *testing.T) {
	mem := make([]byte, sid.MemorySize)
	opts := options.NewOutput()
	opts.TimeSeconds = true

	lines := render(t, New(), opts, [][]byte{mem})
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "| Frame | 00 01 02 03 04 05 06 | 07 08 09 10 11 12 13 | 14 15 16 17 18 19 20 | 21 22 23 24 | dt_us |", lines[0])
	assert.Equal(t, "|0:00.00| 00 00 00 00 00 00 00 | 00 00 00 00 00 00 00 | 00 00 00 00 00 00 00 | 00 00 00 00 |  4E20 |", lines[2])
	assert.Equal(t, len(header), len(lines[2]))
}
