package crawl

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// CurlTransfer downloads via the system curl binary. curl's
// --continue-at - flag resumes a partially-downloaded file instead of
// re-fetching it from byte zero, which matters for multi-hundred-MB
// Common Crawl segments on a flaky link.
type CurlTransfer struct {
	BinaryPath string
}

// NewCurlTransfer locates the curl binary.
// Returns an error if curl is not found in PATH.
func NewCurlTransfer() (*CurlTransfer, error) {
	path, err := exec.LookPath("curl")
	if err != nil {
		return nil, fmt.Errorf("curl binary not found in PATH: %w", err)
	}
	return &CurlTransfer{BinaryPath: path}, nil
}

// Fetch downloads url to dest.
func (c *CurlTransfer) Fetch(ctx context.Context, url string, dest string) error {
	// --fail         = non-zero exit on HTTP errors (no error pages on disk)
	// --location     = follow redirects
	// --continue-at - = resume from wherever the existing file ends
	cmd := exec.CommandContext(ctx, c.BinaryPath,
		"--fail", "--location", "--silent", "--show-error",
		"--continue-at", "-",
		"-o", dest, url)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("curl failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// GzipDecompressor stream-decompresses gzip files with the standard
// library codec. Reading to EOF validates the trailing CRC, so a
// truncated or corrupted stream surfaces as an error here.
type GzipDecompressor struct{}

func (GzipDecompressor) Decompress(src string, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, zr); err != nil {
		out.Close()
		return fmt.Errorf("decompress stream: %w", err)
	}

	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
