package protocol

import (
	"errors"
	"io"
)

const (
	packetFrameSize          = 1024 * 64
	maxConsecutiveEmptyReads = 100
)

// Reader reads frames from a byte stream that does not preserve frame boundaries. Bytes left over after the
// last complete frame are kept and prepended to the next read.
type Reader struct {
	r      io.Reader
	framer *Framer

	buf   []byte
	chunk []byte
}

// NewReader returns a Reader parsing frames read from r with the framer passed.
func NewReader(r io.Reader, framer *Framer) *Reader {
	return &Reader{
		r:      r,
		framer: framer,
		chunk:  make([]byte, packetFrameSize),
	}
}

// ReadPacket returns the next frame, reading from the stream until it is complete. Only that frame is parsed
// with the compression setting passed, so a setting changed in reaction to it applies to the frame after.
func (r *Reader) ReadPacket(compressed bool) (RawPacket, error) {
	for {
		pk, n, err := r.framer.Parse(r.buf, compressed)
		if err == nil {
			r.consume(n)
			return pk, nil
		}
		if !errors.Is(err, ErrIncompleteFrame) {
			return RawPacket{}, err
		}
		if err := r.fill(); err != nil {
			return RawPacket{}, err
		}
	}
}

// ReadPackets blocks until at least one frame is complete and returns every complete frame buffered at that
// point, in wire order.
func (r *Reader) ReadPackets(compressed bool) ([]RawPacket, error) {
	pk, err := r.ReadPacket(compressed)
	if err != nil {
		return nil, err
	}

	packets := []RawPacket{pk}
	for len(r.buf) > 0 {
		pk, n, err := r.framer.Parse(r.buf, compressed)
		if errors.Is(err, ErrIncompleteFrame) {
			break
		} else if err != nil {
			return nil, err
		}
		r.consume(n)
		packets = append(packets, pk)
	}
	return packets, nil
}

// Buffered returns the number of bytes read from the stream that are not part of a returned frame yet.
func (r *Reader) Buffered() int {
	return len(r.buf)
}

func (r *Reader) fill() error {
	for i := 0; i < maxConsecutiveEmptyReads; i++ {
		n, err := r.r.Read(r.chunk)
		r.buf = append(r.buf, r.chunk[:n]...)
		if n > 0 {
			return nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(r.buf) > 0 {
				err = io.ErrUnexpectedEOF
			}
			return &TransportError{Op: "read", Err: err}
		}
	}
	return &TransportError{Op: "read", Err: io.ErrNoProgress}
}

func (r *Reader) consume(n int) {
	r.buf = append(r.buf[:0], r.buf[n:]...)
}
