package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// maxLineSize bounds a single dump line. Self posts max out around
// 40KB of markdown, but poll payloads and pathological bodies have
// been seen far larger in the wild.
const maxLineSize = 16 << 20

// Scanner iterates the lines of one dump file, decompressing
// transparently when the file name ends in .zst.
type Scanner struct {
	file    *os.File
	zr      *zstd.Decoder
	scanner *bufio.Scanner
	line    int
}

// OpenFile opens path for line iteration.
func OpenFile(path string) (*Scanner, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided dump path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open dump file: %w", err)
	}

	s := &Scanner{file: f}
	var src io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		s.zr = zr
		src = zr
	}

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	s.scanner = sc
	return s, nil
}

// Scan advances to the next non-empty line. It returns false at end of
// input or on error; check Err afterwards.
func (s *Scanner) Scan() bool {
	for s.scanner.Scan() {
		s.line++
		if len(s.scanner.Bytes()) > 0 {
			return true
		}
	}
	return false
}

// Bytes returns the current line. The slice is only valid until the
// next call to Scan.
func (s *Scanner) Bytes() []byte {
	return s.scanner.Bytes()
}

// Line returns the 1-based number of the current line, for error
// reporting.
func (s *Scanner) Line() int {
	return s.line
}

// Err returns the first error hit while scanning.
func (s *Scanner) Err() error {
	return s.scanner.Err()
}

// Close releases the decoder and the underlying file.
func (s *Scanner) Close() error {
	if s.zr != nil {
		s.zr.Close()
	}
	return s.file.Close()
}
