package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mdhtml/internal/yamlutil"
)

type markdownSection struct {
	Linkify   bool `yaml:"linkify"`
	Footnotes bool `yaml:"footnotes"`
}

type testConfig struct {
	Title    string          `yaml:"title"`
	Workers  int             `yaml:"workers"`
	Markdown markdownSection `yaml:"markdown"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name: "known keys only",
			data: []byte("title: x\nmarkdown:\n  footnotes: true\n"),
		},
		{
			name:    "invalid syntax",
			data:    []byte("title: [unclosed"),
			wantErr: errors.New("yamlutil:"),
		},
		{
			name:    "unknown top-level key",
			data:    []byte("title: x\ntheme: dark"),
			wantErr: errors.New("yamlutil:"),
		},
		{
			name:    "typo in nested key",
			data:    []byte("markdown:\n  linkfy: true\n"),
			wantErr: errors.New("yamlutil:"),
		},
		{
			name:    "empty data",
			data:    []byte{},
			wantErr: yamlutil.ErrNilData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfg testConfig
			checkErr(t, yamlutil.UnmarshalStrict(tt.data, &cfg), tt.wantErr)
		})
	}
}

func TestUnmarshalStrict_Decodes(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	data := []byte("title: Notes\nworkers: 4\nmarkdown:\n  linkify: true\n")
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Title != "Notes" || cfg.Workers != 4 {
		t.Errorf("cfg = %+v, want title Notes and 4 workers", cfg)
	}
	if !cfg.Markdown.Linkify || cfg.Markdown.Footnotes {
		t.Errorf("Markdown = %+v, want linkify only", cfg.Markdown)
	}
}

func TestUnmarshalStrict_NilDestination(t *testing.T) {
	t.Parallel()

	err := yamlutil.UnmarshalStrict([]byte("title: x"), nil)
	if !errors.Is(err, yamlutil.ErrNilDestination) {
		t.Errorf("expected ErrNilDestination, got %v", err)
	}
}

// Note: modifies the package-level MaxInputSize, so it does not run in parallel.
func TestInputSizeLimit(t *testing.T) {
	original := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = original })
	yamlutil.MaxInputSize = 100

	// "title: x\n" is 9 bytes; trailing blank lines pad to the limit.
	atLimit := []byte("title: x\n" + strings.Repeat("\n", 91))
	overLimit := []byte("title: x\n" + strings.Repeat("\n", 92))

	var cfg testConfig
	if err := yamlutil.UnmarshalStrict(atLimit, &cfg); err != nil {
		t.Errorf("input at limit: unexpected error: %v", err)
	}

	err := yamlutil.UnmarshalStrict(overLimit, &cfg)
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("expected ErrInputTooLarge, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "101 bytes (max 100)") {
		t.Errorf("error should report sizes, got %q", err)
	}
}

// checkErr matches sentinels with errors.Is and anything else by substring.
func checkErr(t *testing.T, err, want error) {
	t.Helper()

	if want == nil {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if !errors.Is(err, want) && !strings.Contains(err.Error(), want.Error()) {
		t.Fatalf("error = %q, want %q", err, want)
	}
}
