package crawl

import (
	"fmt"
	"iter"
	"path"
	"path/filepath"
	"strings"
)

// IndexPlaceholder is the substring of a URL template that gets replaced
// with the zero-padded segment number.
const IndexPlaceholder = "{idx}"

// indexWidth is the zero-pad width Common Crawl uses for segment numbers,
// so file names sort lexicographically in numeric order.
const indexWidth = 5

// Segment describes one remote archive segment and where its compressed
// and decompressed forms live on disk. Immutable once constructed.
type Segment struct {
	Index            int
	SourceURL        string
	CompressedPath   string
	DecompressedPath string
}

// Enumerate yields one Segment per integer in [start, end), in ascending
// order. The segment number is zero-padded to five digits and substituted
// into the {idx} placeholder of the URL template. Local file names are the
// last path component of the resulting URL; the decompressed sibling drops
// the .gz suffix.
//
// An empty or inverted range yields an empty sequence. Enumerate performs
// no I/O and the returned sequence can be ranged over more than once.
func Enumerate(template string, start, end int, destDir string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for i := start; i < end; i++ {
			num := fmt.Sprintf("%0*d", indexWidth, i)
			url := strings.ReplaceAll(template, IndexPlaceholder, num)
			name := path.Base(url)

			seg := Segment{
				Index:            i,
				SourceURL:        url,
				CompressedPath:   filepath.Join(destDir, name),
				DecompressedPath: filepath.Join(destDir, strings.TrimSuffix(name, ".gz")),
			}

			if !yield(seg) {
				return
			}
		}
	}
}
