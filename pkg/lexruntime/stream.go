package lexruntime

import (
	"bufio"
	"errors"
	"io"

	"github.com/h2non/filetype"
	"github.com/tansive/lexruntime/internal/common/apperrors"
)

// sniffLen is enough for every container filetype recognises.
const sniffLen = 261

var (
	ErrStreamTaken = apperrors.New("payload stream already taken")
)

// PayloadStream is a read-once byte stream owned by exactly one holder.
//
// A request owns its input stream until the transport calls Take, after which
// the transport is the sole reader. A result owns the response audio until the
// caller calls Take; the caller must close what Take returns. Entities never
// read, rewind or close the stream themselves.
type PayloadStream struct {
	rc    io.ReadCloser
	br    *bufio.Reader
	taken bool
}

// NewPayloadStream wraps r. If r is not an io.ReadCloser, closing the stream
// is a no-op.
func NewPayloadStream(r io.Reader) *PayloadStream {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	return &PayloadStream{
		rc: rc,
		br: bufio.NewReaderSize(rc, sniffLen),
	}
}

// Peek returns the next n bytes without consuming them. It returns fewer
// bytes and io.EOF for shorter streams.
func (s *PayloadStream) Peek(n int) ([]byte, error) {
	if s.taken {
		return nil, ErrStreamTaken
	}
	return s.br.Peek(n)
}

// DetectMIME sniffs the container format from the stream head without
// consuming it. It returns "" for unrecognised data such as raw PCM.
func (s *PayloadStream) DetectMIME() (string, error) {
	head, err := s.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", err
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "", nil
	}
	return kind.MIME.Value, nil
}

// Take transfers ownership of the underlying reader to the caller. It fails
// with ErrStreamTaken on every call after the first.
func (s *PayloadStream) Take() (io.ReadCloser, error) {
	if s == nil {
		return nil, ErrStreamTaken.Msg("payload stream is nil")
	}
	if s.taken {
		return nil, ErrStreamTaken
	}
	s.taken = true
	return &ownedReader{Reader: s.br, closer: s.rc}, nil
}

// Taken reports whether ownership has been transferred.
func (s *PayloadStream) Taken() bool {
	return s.taken
}

func (s *PayloadStream) String() string {
	if s.taken {
		return "<stream taken>"
	}
	return "<stream>"
}

type ownedReader struct {
	io.Reader
	closer io.Closer
}

func (r *ownedReader) Close() error {
	return r.closer.Close()
}

// streamsEqual compares streams by identity: the bytes are never read.
func streamsEqual(a, b *PayloadStream) bool {
	return a == b
}

func streamHash(s *PayloadStream) uint64 {
	if s == nil {
		return 0
	}
	return 1
}
