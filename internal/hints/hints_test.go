package hints

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		paths       []string
		contains    string
		notContains string
	}{
		{
			name:        "no paths",
			paths:       nil,
			contains:    "--config",
			notContains: "create",
		},
		{
			name:     "suggests user config path",
			paths:    []string{"site.yaml", "/home/u/.config/go-mdhtml/site.yaml"},
			contains: "create /home/u/.config/go-mdhtml/site.yaml",
		},
		{
			name:        "local paths only",
			paths:       []string{"site.yaml", "site.yml"},
			contains:    "--config",
			notContains: "create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
			if tt.notContains != "" && strings.Contains(hint, tt.notContains) {
				t.Errorf("hint should not contain %q, got %q", tt.notContains, hint)
			}
		})
	}
}

func TestForHighlightStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		available []string
		want      string
	}{
		{
			name:      "no styles",
			available: nil,
			want:      "",
		},
		{
			name:      "short list",
			available: []string{"github", "monokai"},
			want:      "\n  hint: available: github, monokai",
		},
		{
			name:      "long list is truncated",
			available: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
			want:      "\n  hint: available: a, b, c, d, e, f, g, h (and 2 more)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ForHighlightStyle(tt.available); got != tt.want {
				t.Errorf("ForHighlightStyle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForMissingStyle(t *testing.T) {
	t.Parallel()

	want := "\n  hint: set highlight.style (e.g. github) or pass --highlight github"
	if got := ForMissingStyle("github"); got != want {
		t.Errorf("ForMissingStyle() = %q, want %q", got, want)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	for _, h := range []string{
		ForConfigNotFound(nil),
		ForHighlightStyle([]string{"github"}),
		ForMissingStyle("github"),
		ForNoInput(),
		ForOutputDirectory(),
	} {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
