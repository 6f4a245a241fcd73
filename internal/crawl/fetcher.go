package crawl

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hannes44/exjobb-index-compression/internal/infra/logger"
)

// gzipMagic is the fixed two-byte prefix of every gzip stream.
var gzipMagic = []byte{0x1F, 0x8B}

// Transfer downloads a remote resource to a local path. Implementations
// must support resuming a partially-downloaded file rather than
// restarting from byte zero.
type Transfer interface {
	Fetch(ctx context.Context, url string, dest string) error
}

// Decompressor stream-decompresses src into dest in full.
type Decompressor interface {
	Decompress(src string, dest string) error
}

// Fetcher materializes one decompressed file per segment, tolerating
// transient transfer and decompression failures with a bounded,
// linearly backed-off retry loop.
type Fetcher struct {
	transfer Transfer
	decomp   Decompressor
	logger   *logger.Logger

	maxRetries  int
	backoffBase time.Duration

	// sleep is swapped out in tests so back-off is observable without
	// real time passing.
	sleep func(time.Duration)
}

// NewFetcher wires a Fetcher from its tools. backoffBase scales linearly
// with the attempt count, so attempt n waits backoffBase*n before the
// next download.
func NewFetcher(t Transfer, d Decompressor, maxRetries int, backoffBase time.Duration, log *logger.Logger) *Fetcher {
	return &Fetcher{
		transfer:    t,
		decomp:      d,
		logger:      log,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		sleep:       time.Sleep,
	}
}

// fetchState enumerates the per-segment state machine. Keeping the
// transitions explicit makes the back-off policy and terminal conditions
// testable without mocking wall-clock time.
type fetchState int

const (
	stateDownloading fetchState = iota
	stateVerifying
	stateDecompressing
	stateSucceeded
	stateRetryPending
	stateFailed
)

// Run fetches every segment in [start, end) strictly in order. Segment
// i+1 never starts before segment i has reached a terminal state; the
// first fatal failure halts the run.
func (f *Fetcher) Run(ctx context.Context, template string, start, end int, destDir string) error {
	for seg := range Enumerate(template, start, end, destDir) {
		if err := f.Fetch(ctx, seg); err != nil {
			return err
		}
	}
	return nil
}

// Fetch resolves a single segment: download, verify the gzip magic,
// decompress, clean up the compressed intermediate. Returns nil on
// success or a *FatalError once the retry budget is exhausted.
//
// Fetch always performs the full cycle; callers wanting idempotent
// re-runs must check for pre-existing output themselves.
func (f *Fetcher) Fetch(ctx context.Context, seg Segment) error {
	attempt := 0
	state := stateDownloading
	var lastErr error

	for {
		switch state {
		case stateDownloading:
			f.logger.Info("[%d/%d] downloading %s", attempt+1, f.maxRetries+1, seg.SourceURL)
			if err := f.transfer.Fetch(ctx, seg.SourceURL, seg.CompressedPath); err != nil {
				lastErr = fmt.Errorf("transfer failed: %w", err)
				state = stateRetryPending
				continue
			}
			state = stateVerifying

		case stateVerifying:
			if err := verifyGzipMagic(seg.CompressedPath); err != nil {
				// Corrupt or incomplete download. Do not attempt to
				// decompress a stream we already know is broken.
				lastErr = err
				state = stateRetryPending
				continue
			}
			state = stateDecompressing

		case stateDecompressing:
			if err := f.decompressAtomic(seg); err != nil {
				lastErr = fmt.Errorf("decompress failed: %w", err)
				state = stateRetryPending
				continue
			}
			state = stateSucceeded

		case stateSucceeded:
			if err := os.Remove(seg.CompressedPath); err != nil {
				f.logger.Warn("could not remove %s: %v", seg.CompressedPath, err)
			}
			f.logger.Info("finished %s", seg.DecompressedPath)
			return nil

		case stateRetryPending:
			f.logger.Warn("segment %05d attempt %d failed: %v", seg.Index, attempt+1, lastErr)
			if attempt >= f.maxRetries {
				state = stateFailed
				continue
			}
			// A cancelled context must not sit out the remaining back-off
			// schedule before surfacing.
			if err := ctx.Err(); err != nil {
				lastErr = err
				state = stateFailed
				continue
			}
			attempt++
			delay := f.backoffBase * time.Duration(attempt)
			f.logger.Warn("retrying segment %05d in %s", seg.Index, delay)
			f.sleep(delay)
			state = stateDownloading

		case stateFailed:
			return &FatalError{
				URL:      seg.SourceURL,
				Index:    seg.Index,
				Attempts: attempt + 1,
				Err:      lastErr,
			}
		}
	}
}

// decompressAtomic decompresses into a temporary sibling and renames it
// into place, so readers only ever observe either no file or a complete
// one. A failed attempt leaves nothing at the decompressed path.
func (f *Fetcher) decompressAtomic(seg Segment) error {
	tmp := seg.DecompressedPath + ".tmp"

	if err := f.decomp.Decompress(seg.CompressedPath, tmp); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, seg.DecompressedPath); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// verifyGzipMagic reads the first two bytes of path and compares them
// against the canonical gzip magic number. This is deliberately a cheap
// prefix check, not a checksum: a truncated-but-gzip-prefixed file
// passes here and is caught during decompression instead.
func verifyGzipMagic(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	defer file.Close()

	header := make([]byte, 2)
	n, err := file.Read(header)
	if err != nil || n < 2 {
		return fmt.Errorf("%w: file too short", ErrBadMagic)
	}

	if !bytes.Equal(header, gzipMagic) {
		return fmt.Errorf("%w: got %x", ErrBadMagic, header)
	}
	return nil
}
