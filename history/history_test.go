package history

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openStore(t *testing.T, path string, limit int) *Store {
	t.Helper()
	s, err := Open(path, limit)
	if err != nil {
		t.Fatalf("fail to open history: %s", err)
	}
	return s
}

func TestAppend(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "history.db"), 10)
	defer s.Close()

	lines := []string{
		"var a = 1;",
		"   ",
		"print a;",
		"fun f() {\n  return 1;\n}",
	}
	for _, i := range lines {
		if err := s.Append(i); err != nil {
			t.Fatalf("fail to append %q: %s", i, err)
		}
	}
	got, err := s.Lines()
	if err != nil {
		t.Fatalf("fail to read lines: %s", err)
	}
	want := []string{
		"var a = 1;",
		"print a;",
		"fun f() {   return 1; }",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatched (-want +got):\n%s", diff)
	}
}

func TestTrim(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "history.db"), 3)
	defer s.Close()

	for _, i := range []string{"a;", "b;", "c;", "d;", "e;"} {
		if err := s.Append(i); err != nil {
			t.Fatalf("fail to append %q: %s", i, err)
		}
	}
	got, err := s.Lines()
	if err != nil {
		t.Fatalf("fail to read lines: %s", err)
	}
	want := []string{"c;", "d;", "e;"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatched (-want +got):\n%s", diff)
	}
}

func TestReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history.db")

	s := openStore(t, file, 0)
	if err := s.Append("print 1;"); err != nil {
		t.Fatalf("fail to append: %s", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("fail to close: %s", err)
	}

	s = openStore(t, file, 0)
	defer s.Close()
	if err := s.Append("print 2;"); err != nil {
		t.Fatalf("fail to append: %s", err)
	}
	got, err := s.Lines()
	if err != nil {
		t.Fatalf("fail to read lines: %s", err)
	}
	want := []string{"print 1;", "print 2;"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatched (-want +got):\n%s", diff)
	}
}

func TestClosed(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "history.db"), 0)
	if err := s.Close(); err != nil {
		t.Fatalf("fail to close: %s", err)
	}
	if err := s.Append("print 1;"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected %s, got %v", ErrClosed, err)
	}
	if _, err := s.Lines(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected %s, got %v", ErrClosed, err)
	}
}
