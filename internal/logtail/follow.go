package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Follower reads lines appended to a file since the previous poll. It notices
// truncation (size shrinks below the read offset) and replacement (a different
// file now lives at the path) and starts over from the beginning.
//
// Incomplete trailing lines are held back until their newline arrives.
type Follower struct {
	path string

	mu      sync.Mutex
	offset  int64
	info    os.FileInfo
	partial []byte
}

// NewFollower returns a follower positioned at the start of path.
func NewFollower(path string) *Follower {
	return &Follower{path: path}
}

// Path returns the followed file.
func (f *Follower) Path() string { return f.path }

// Offset returns the byte offset of the next unread data.
func (f *Follower) Offset() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset + int64(len(f.partial))
}

// Prime returns the last maxLines complete lines currently in the file and
// positions the follower right after them. A negative maxLines returns every
// line. A missing file primes to an empty position without error.
func (f *Follower) Prime(maxLines int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.offset, f.info, f.partial = 0, nil, nil

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	lines, consumed, err := tail(file, maxLines, scanCompleteLines)
	if err != nil {
		return nil, err
	}
	f.offset, f.info = consumed, info
	if maxLines == 0 {
		return nil, nil
	}
	return lines, nil
}

// Poll returns the complete lines appended since the last call. A missing
// file is reported as an error wrapping os.ErrNotExist.
func (f *Follower) Poll() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	if f.info != nil && !os.SameFile(f.info, info) {
		f.offset, f.partial = 0, nil
	}
	f.info = info

	if info.Size() < f.offset+int64(len(f.partial)) {
		f.offset, f.partial = 0, nil
	}
	start := f.offset + int64(len(f.partial))
	if info.Size() == start {
		return nil, nil
	}

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek log: %w", err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	data = append(f.partial, data...)
	f.partial = nil

	var lines []string
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, trimCR(string(data[:i])))
		f.offset += int64(i) + 1
		data = data[i+1:]
	}
	if len(data) > 0 {
		f.partial = bytes.Clone(data)
	}
	return lines, nil
}
