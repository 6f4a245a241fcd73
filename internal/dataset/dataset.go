// Package dataset walks a directory of decompressed text files and turns
// them into document batches for ingestion. WET/WARC content is treated
// as opaque text: records are split on blank-line boundaries, never
// parsed structurally.
package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one unit of text handed to a search engine for indexing.
type Document struct {
	ID      string
	Content string
}

// textExtensions are the file types a fetched dataset directory may contain.
var textExtensions = map[string]bool{
	".txt": true,
	".wet": true,
}

// ListFiles returns the dataset files under dir in lexicographic order,
// which matches numeric segment order because segment names are
// zero-padded. Compressed leftovers and unknown file types are skipped.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !textExtensions[filepath.Ext(entry.Name())] {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}

// ReadDocuments splits one dataset file into documents on blank-line
// boundaries. Document IDs are <basename>#<n> so a document can be traced
// back to its segment.
func ReadDocuments(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	base := filepath.Base(path)
	var docs []Document
	var current strings.Builder
	n := 0

	flush := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if text == "" {
			return
		}
		docs = append(docs, Document{
			ID:      fmt.Sprintf("%s#%d", base, n),
			Content: text,
		})
		n++
	}

	scanner := bufio.NewScanner(f)
	// WET extracts can contain very long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", base, err)
	}
	flush()

	return docs, nil
}
