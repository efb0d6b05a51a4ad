// Package frames records a chunked byte stream with its chunk boundaries, so
// that it can be replayed chunk for chunk.
//
// A recording is a sequence of frames. Each frame is a 4-byte big-endian
// payload length followed by a msgpack-encoded Frame.
package frames

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/vmihailenco/msgpack/v5"
)

// Frame size constants.
const (
	// MaxFrameSize is the maximum frame size (16 MiB), including length prefix.
	MaxFrameSize = 16 * 1024 * 1024
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
	// MaxPayloadSize is the maximum payload size (MaxFrameSize - 4 bytes).
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
)

// Frame is one recorded chunk. Seq starts at 0 and grows by one per frame.
type Frame struct {
	Seq  uint64 `msgpack:"seq"`
	Data []byte `msgpack:"data"`
}

// FrameErrorKind classifies frame decoding errors.
type FrameErrorKind int

const (
	// FrameErrorPartial indicates a truncated or incomplete frame.
	FrameErrorPartial FrameErrorKind = iota
	// FrameErrorTooLarge indicates a frame exceeding MaxFrameSize.
	FrameErrorTooLarge
	// FrameErrorDecode indicates a msgpack decoding error.
	FrameErrorDecode
	// FrameErrorSequence indicates a missing, repeated or reordered frame.
	FrameErrorSequence
)

// FrameError represents a frame decoding error.
type FrameError struct {
	Kind FrameErrorKind
	Msg  string
	Err  error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsFrameError reports whether err is a *FrameError of the given kind.
func IsFrameError(err error, kind FrameErrorKind) bool {
	var frameErr *FrameError
	return errors.As(err, &frameErr) && frameErr.Kind == kind
}

// Writer records chunks as frames.
type Writer struct {
	w   io.Writer
	seq uint64
}

// NewWriter creates a Writer that starts a new recording on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteChunk writes data as the next frame. Empty chunks are recorded too.
func (w *Writer) WriteChunk(data []byte) error {
	payload, err := msgpack.Marshal(&Frame{Seq: w.seq, Data: data})
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", w.seq, err)
	}
	if len(payload) > MaxPayloadSize {
		return &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", len(payload), MaxPayloadSize),
		}
	}

	buf := make([]byte, LengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(buf[:LengthPrefixSize], uint32(len(payload)))
	copy(buf[LengthPrefixSize:], payload)
	if _, err := w.w.Write(buf); err != nil {
		return fmt.Errorf("write frame %d: %w", w.seq, err)
	}
	w.seq++
	return nil
}

// Reader replays the chunks of a recording.
type Reader struct {
	r   io.Reader
	seq uint64
}

// NewReader creates a Reader over a recording.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadChunk reads the next frame and returns its data.
//
// Errors:
//   - io.EOF: the recording ended cleanly (no more frames)
//   - *FrameError with Kind=FrameErrorPartial: incomplete frame
//   - *FrameError with Kind=FrameErrorTooLarge: frame exceeds limit
//   - *FrameError with Kind=FrameErrorDecode: payload is not a Frame
//   - *FrameError with Kind=FrameErrorSequence: frame out of order
func (r *Reader) ReadChunk() ([]byte, error) {
	var lengthBuf [LengthPrefixSize]byte
	_, err := io.ReadFull(r.r, lengthBuf[:])
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read length prefix",
			Err:  err,
		}
	}

	payloadSize := binary.BigEndian.Uint32(lengthBuf[:])
	if payloadSize > MaxPayloadSize {
		return nil, &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", payloadSize, MaxPayloadSize),
		}
	}

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read payload",
			Err:  err,
		}
	}

	var frame Frame
	if err := msgpack.Unmarshal(payload, &frame); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to decode frame",
			Err:  err,
		}
	}
	if frame.Seq != r.seq {
		return nil, &FrameError{
			Kind: FrameErrorSequence,
			Msg:  fmt.Sprintf("frame seq %d, want %d", frame.Seq, r.seq),
		}
	}
	r.seq++

	if frame.Data == nil {
		frame.Data = []byte{}
	}
	return frame.Data, nil
}

// Chunks returns the chunks of the recording read from r. A clean end of the
// recording ends the sequence; any other error is yielded once, last.
func Chunks(r io.Reader) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		fr := NewReader(r)
		for {
			data, err := fr.ReadChunk()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(data, nil) {
				return
			}
		}
	}
}
