package chunker

import (
	"context"
	"fmt"
	"io"
)

// DefaultChunkSize is sized for ~100ms of 16kHz mono 16-bit PCM.
const DefaultChunkSize = 3200

// Reader yields fixed-size chunks from an io.Reader (an audio file or
// stdin). The final chunk may be shorter; a zero-length tail is not
// emitted. It satisfies the voice package's chunk source contract.
type Reader struct {
	r    io.Reader
	size int
}

// New creates a Reader cutting r into size-byte chunks. size <= 0 falls back
// to DefaultChunkSize.
func New(r io.Reader, size int) *Reader {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Reader{r: r, size: size}
}

// Next returns the next chunk, io.EOF once the reader is exhausted, or the
// reader's own error. Each call checks ctx first so a stalled source can be
// abandoned.
func (c *Reader) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := make([]byte, c.size)
	n, err := io.ReadFull(c.r, buf)
	switch err {
	case nil:
		return buf, nil
	case io.ErrUnexpectedEOF:
		return buf[:n], nil
	case io.EOF:
		return nil, io.EOF
	default:
		return nil, fmt.Errorf("chunker: read audio: %w", err)
	}
}
