package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// testEnv builds an Environment with buffered output and the given stdin.
func testEnv(stdin string, piped bool) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:         time.Now,
		Stdin:       strings.NewReader(stdin),
		Stdout:      &stdout,
		Stderr:      &stderr,
		StdinIsPipe: func() bool { return piped },
	}
	return env, &stdout, &stderr
}

// writeFile creates a file with content, making parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup write: %v", err)
	}
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// errRender is returned by mockRenderer for inputs it is told to reject.
var errRender = errors.New("render failed")

// mockRenderer records calls and fails on inputs containing failOn.
type mockRenderer struct {
	mu     sync.Mutex
	calls  []string
	failOn string
}

func (m *mockRenderer) Render(_ context.Context, markdown string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, markdown)
	m.mu.Unlock()

	if m.failOn != "" && strings.Contains(markdown, m.failOn) {
		return "", errRender
	}
	return "<rendered>" + markdown + "</rendered>", nil
}

func (m *mockRenderer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
