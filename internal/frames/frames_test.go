package frames

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketswarm/internal/force"
)

func TestRecordAndReplay(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	nodes := []force.Node{{ID: "AAA", X: 1.5, Y: -2}, {ID: "BBB", X: 3, Y: 4, VX: 9}}
	require.NoError(t, rec.Record(7, nodes))
	nodes[0].X = 10
	require.NoError(t, rec.Record(8, nodes))
	assert.Equal(t, 2, rec.Frames())
	assert.Zero(t, buf.Len(), "frames are buffered until Flush")
	require.NoError(t, rec.Flush())

	got, err := NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 0, got[0].Seq)
	assert.Equal(t, 7, got[0].Index)
	assert.Equal(t, []Point{{ID: "AAA", X: 1.5, Y: -2}, {ID: "BBB", X: 3, Y: 4}}, got[0].Positions)
	assert.Equal(t, 1, got[1].Seq)
	assert.Equal(t, 10.0, got[1].Positions[0].X)
}

func TestReaderEOF(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil)).Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderRejectsGarbage(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0xc1})).Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}
