package protocol

import (
	"errors"
	"fmt"
)

// Codec errors. Each aborts only the encode or decode call that produced it; callers must discard the
// buffer being processed rather than attempt to resynchronise mid-frame.
var (
	ErrVarIntTooLarge             = errors.New("protocol: varint is too large")
	ErrVarIntOutOfRange           = errors.New("protocol: value does not fit into 32 bits")
	ErrNegativeStringLength       = errors.New("protocol: string length is negative")
	ErrInvalidUTF8                = errors.New("protocol: string is not valid utf-8")
	ErrUncompressedLengthMismatch = errors.New("protocol: uncompressed length does not match declared length")

	ErrIncompleteFrame = errors.New("protocol: incomplete frame")
	ErrMalformedFrame  = errors.New("protocol: malformed frame")
	ErrFrameTooLarge   = errors.New("protocol: frame too large")
)

// TransportError wraps a failure of the underlying byte stream. The pending send or receive fails outright;
// nothing is retried.
type TransportError struct {
	Op  string
	Err error
}

// Error ...
func (e *TransportError) Error() string {
	return fmt.Sprintf("protocol: transport %s: %v", e.Op, e.Err)
}

// Unwrap ...
func (e *TransportError) Unwrap() error {
	return e.Err
}
