package parser

import (
	"bufio"
	"io"
	"strings"
)

// LineReader reads newline-delimited records, tracking line numbers.
// Trailing carriage returns are removed.
type LineReader struct {
	reader *bufio.Reader
	line   int
}

// NewLineReader creates a LineReader
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next line and its 1-based line number, or io.EOF
func (lr *LineReader) Next() (string, int, error) {
	text, err := lr.reader.ReadString('\n')
	if err == io.EOF && len(text) == 0 {
		return "", lr.line, io.EOF
	} else if err != nil && err != io.EOF {
		return "", lr.line, err
	}
	lr.line++
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return text, lr.line, nil
}

// Skip discards up to n lines
func (lr *LineReader) Skip(n int) error {
	for i := 0; i < n; i++ {
		if _, _, err := lr.Next(); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
	return nil
}
