package logtail

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func appendFile(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString(data); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func poll(t *testing.T, f *Follower) []string {
	t.Helper()
	lines, err := f.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	return lines
}

func TestFollower_ReadsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	appendFile(t, path, "one\ntwo\n")

	f := NewFollower(path)
	if got := poll(t, f); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Fatalf("first Poll() = %q", got)
	}
	if got := poll(t, f); got != nil {
		t.Fatalf("idle Poll() = %q, want nil", got)
	}

	appendFile(t, path, "three\n")
	if got := poll(t, f); !reflect.DeepEqual(got, []string{"three"}) {
		t.Fatalf("Poll() after append = %q", got)
	}
}

func TestFollower_HoldsPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	appendFile(t, path, "complete\nhalf")

	f := NewFollower(path)
	if got := poll(t, f); !reflect.DeepEqual(got, []string{"complete"}) {
		t.Fatalf("Poll() = %q, want [complete]", got)
	}
	if got := poll(t, f); got != nil {
		t.Fatalf("Poll() without newline = %q, want nil", got)
	}

	appendFile(t, path, " done\r\n")
	if got := poll(t, f); !reflect.DeepEqual(got, []string{"half done"}) {
		t.Fatalf("Poll() after newline = %q, want [half done]", got)
	}
	if f.Offset() != int64(len("complete\nhalf done\r\n")) {
		t.Fatalf("Offset() = %d", f.Offset())
	}
}

func TestFollower_RestartsAfterTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	appendFile(t, path, "old line one\nold line two\n")

	f := NewFollower(path)
	poll(t, f)

	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := poll(t, f); !reflect.DeepEqual(got, []string{"new"}) {
		t.Fatalf("Poll() after truncation = %q, want [new]", got)
	}
}

func TestFollower_RestartsAfterReplacement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	appendFile(t, path, "first\n")

	f := NewFollower(path)
	poll(t, f)

	rotated := filepath.Join(dir, "app.log.1")
	if err := os.Rename(path, rotated); err != nil {
		t.Fatal(err)
	}
	appendFile(t, path, "fresh file line\n")

	if got := poll(t, f); !reflect.DeepEqual(got, []string{"fresh file line"}) {
		t.Fatalf("Poll() after rotation = %q", got)
	}
}

func TestFollower_MissingFileIsError(t *testing.T) {
	f := NewFollower(filepath.Join(t.TempDir(), "missing.log"))
	_, err := f.Poll()
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Poll() error = %v, want os.ErrNotExist", err)
	}
}

func TestFollower_PrimeThenFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	appendFile(t, path, "1\n2\n3\n4\npartial")

	f := NewFollower(path)
	got, err := f.Prime(2)
	if err != nil {
		t.Fatalf("Prime() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"3", "4"}) {
		t.Fatalf("Prime(2) = %q, want [3 4]", got)
	}

	appendFile(t, path, " line\n5\n")
	if got := poll(t, f); !reflect.DeepEqual(got, []string{"partial line", "5"}) {
		t.Fatalf("Poll() after Prime = %q", got)
	}
}

func TestFollower_PrimeZeroSkipsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	appendFile(t, path, "old\n")

	f := NewFollower(path)
	got, err := f.Prime(0)
	if err != nil || got != nil {
		t.Fatalf("Prime(0) = %q, %v; want nil, nil", got, err)
	}
	appendFile(t, path, "new\n")
	if got := poll(t, f); !reflect.DeepEqual(got, []string{"new"}) {
		t.Fatalf("Poll() = %q, want [new]", got)
	}
}

func TestFollower_PrimeMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.log")
	f := NewFollower(path)
	if got, err := f.Prime(10); err != nil || got != nil {
		t.Fatalf("Prime() = %q, %v; want nil, nil", got, err)
	}
	appendFile(t, path, "created\n")
	if got := poll(t, f); !reflect.DeepEqual(got, []string{"created"}) {
		t.Fatalf("Poll() = %q, want [created]", got)
	}
}
