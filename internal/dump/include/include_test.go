package include

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/sid"
)

type bufferCloser struct {
	bytes.Buffer
}

func (b *bufferCloser) Close() error {
	return nil
}

func TestArray(t *testing.T) {
	var buf bufferCloser
	var name string
	opts := options.NewOutput()
	opts.Source = "tune.sid"
	opts.Create = func(n string) (io.WriteCloser, error) {
		name = n
		return &buf, nil
	}

	mem := make([]byte, sid.MemorySize)
	for i := range sid.RegisterCount {
		mem[sid.BaseAddress+i] = byte(0xe0 + i)
	}

	f := New()
	assert.NoError(t, f.Configure(opts))
	assert.NoError(t, f.Before())

	state := sid.New(opts.Duration(), 0)
	for range 2 {
		state.Update(mem)
		assert.NoError(t, f.PerFrame(state))
		state.Tick()
	}
	assert.NoError(t, f.After())
	assert.Equal(t, "tune.sid.h", name)

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, 5, len(lines))
	assert.Equal(t, "unsigned char sound_data[] = {", lines[0])
	assert.Equal(t, lines[1], lines[2])
	assert.Equal(t, "};", lines[3])
	assert.Equal(t, "", lines[4])

	values := strings.Split(lines[1], ",")
	assert.Equal(t, sid.RegisterCount+1, len(values))
	assert.Equal(t, "  0xe0", values[0])
	assert.Equal(t, "  0xf8", values[24])
	assert.Equal(t, "", values[25])
}
