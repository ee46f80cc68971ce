// Package frames records simulation positions as a stream of msgpack
// frames, one per tick, for offline replay.
package frames

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"marketswarm/internal/force"
)

// Point is one node's position in a frame.
type Point struct {
	ID string  `msgpack:"id"`
	X  float64 `msgpack:"x"`
	Y  float64 `msgpack:"y"`
}

// Frame is the swarm at one simulation tick.
type Frame struct {
	Seq       int     `msgpack:"seq"`
	Index     int     `msgpack:"index"`
	Positions []Point `msgpack:"positions"`
}

// Recorder appends frames to a writer. It is not safe for concurrent use.
type Recorder struct {
	buf *bufio.Writer
	enc *msgpack.Encoder
	seq int
}

func NewRecorder(w io.Writer) *Recorder {
	buf := bufio.NewWriter(w)
	return &Recorder{buf: buf, enc: msgpack.NewEncoder(buf)}
}

// Record writes the nodes' positions at play index idx as the next frame.
func (r *Recorder) Record(idx int, nodes []force.Node) error {
	f := Frame{Seq: r.seq, Index: idx, Positions: make([]Point, len(nodes))}
	for i, n := range nodes {
		f.Positions[i] = Point{ID: n.ID, X: n.X, Y: n.Y}
	}
	if err := r.enc.Encode(&f); err != nil {
		return fmt.Errorf("encode frame %d: %w", r.seq, err)
	}
	r.seq++
	return nil
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() int { return r.seq }

// Flush writes any buffered frames to the underlying writer.
func (r *Recorder) Flush() error {
	return r.buf.Flush()
}

// Reader decodes frames written by a Recorder.
type Reader struct {
	dec *msgpack.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: msgpack.NewDecoder(bufio.NewReader(r))}
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if err := r.dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}

// ReadAll decodes every remaining frame.
func (r *Reader) ReadAll() ([]Frame, error) {
	var out []Frame
	for {
		f, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
}
