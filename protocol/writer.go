package protocol

import (
	"bytes"
	"io"

	"github.com/minepress/minepress/internal"
)

// Writer frames packets and writes each one to the underlying stream with a single Write call.
type Writer struct {
	w      io.Writer
	framer *Framer
}

// NewWriter returns a Writer framing packets with the framer passed.
func NewWriter(w io.Writer, framer *Framer) *Writer {
	return &Writer{w: w, framer: framer}
}

// WritePacket frames id and payload and writes the frame. Failures of the stream are returned as a
// *TransportError.
func (w *Writer) WritePacket(id int32, payload []byte, compressed bool) error {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		internal.BufferPool.Put(buf)
	}()

	// Room for both length prefixes, the id and the payload, plus slack for zlib framing.
	buf.Grow(MaxVarIntLen*3 + len(payload) + 64)
	frame, err := w.framer.Append(buf.AvailableBuffer(), id, payload, compressed)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(frame); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}
