package logtail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/five82/logbuf/internal/buffer"
)

const (
	scanInitial = 64 * 1024
	scanMax     = 1024 * 1024
)

// Read returns at most maxLines from the end of the file at path. A negative
// maxLines returns every line; zero returns none.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines == 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	lines, _, err := tail(file, maxLines, bufio.ScanLines)
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// tail keeps the last maxLines lines of r in a ring. consumed counts the
// bytes of every line ending in a newline.
func tail(r io.Reader, maxLines int, split bufio.SplitFunc) (lines []string, consumed int64, err error) {
	ring := buffer.New[string](max(maxLines, 0))
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, scanInitial), scanMax)
	scanner.Split(split)
	for scanner.Scan() {
		line := scanner.Bytes()
		consumed += int64(len(line)) + 1
		ring.Append(trimCR(string(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log: %w", err)
	}
	return ring.Snapshot(), consumed, nil
}

// scanCompleteLines is bufio.ScanLines without the final unterminated line.
func scanCompleteLines(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), nil, nil
	}
	return 0, nil, nil
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}
