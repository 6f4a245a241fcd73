package crawl

import (
	"errors"
	"fmt"
)

// ErrBadMagic indicates a downloaded file does not start with the gzip
// magic bytes. A truncated download and a genuinely malformed remote
// resource are indistinguishable here, so both are treated as transient.
var ErrBadMagic = errors.New("file does not start with gzip magic bytes")

// FatalError is returned when the retry budget for one segment is
// exhausted. The run must halt: downstream indexing has no way to detect
// a silently-missing segment.
type FatalError struct {
	URL      string
	Index    int
	Attempts int
	Err      error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("segment %05d: giving up on %s after %d attempts: %v",
		e.Index, e.URL, e.Attempts, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
