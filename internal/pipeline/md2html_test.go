package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

func TestEngineConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "emphasis",
			input:    "*foo*",
			expected: "<p><em>foo</em></p>\n",
		},
		{
			name:     "external link",
			input:    "[my link](https://example.com)",
			expected: "<p><a href=\"https://example.com\" target=\"_blank\" rel=\"noopener noreferrer\">my link</a></p>\n",
		},
		{
			name:     "annotated target wins",
			input:    "[a link](example.com){target=new}",
			expected: "<p><a href=\"example.com\" target=\"new\" rel=\"noopener noreferrer\">a link</a></p>\n",
		},
		{
			name:     "annotated quoted rel wins",
			input:    `[a link](https://example.com){rel="nofollow"}`,
			expected: "<p><a href=\"https://example.com\" rel=\"nofollow\" target=\"_blank\">a link</a></p>\n",
		},
		{
			name:     "mailto link",
			input:    "[Hey](mailto:joe@example.com)",
			expected: "<p><a href=\"mailto:joe@example.com\" target=\"_blank\" rel=\"noopener noreferrer\">Hey</a></p>\n",
		},
		{
			name:     "link with title",
			input:    `[t](https://example.com "Title")`,
			expected: "<p><a href=\"https://example.com\" title=\"Title\" target=\"_blank\" rel=\"noopener noreferrer\">t</a></p>\n",
		},
		{
			name:     "redirect link is exempt",
			input:    "[open](#/redirect/activity/123/)",
			expected: "<p><a href=\"#/redirect/activity/123/\">open</a></p>\n",
		},
		{
			name:     "redirect link with target is hardened",
			input:    "[open](#/redirect/activity/123/){target=_self}",
			expected: "<p><a href=\"#/redirect/activity/123/\" target=\"_self\" rel=\"noopener noreferrer\">open</a></p>\n",
		},
		{
			name:     "autolink",
			input:    "<https://example.com>",
			expected: "<p><a href=\"https://example.com\" target=\"_blank\" rel=\"noopener noreferrer\">https://example.com</a></p>\n",
		},
		{
			name:     "raw HTML passes through",
			input:    `<a href="https://example.com">raw</a>`,
			expected: "<p><a href=\"https://example.com\">raw</a></p>\n",
		},
		{
			name:     "heading id and class",
			input:    "# Title {#intro .big}",
			expected: "<h1 id=\"intro\" class=\"big\">Title</h1>\n",
		},
		{
			name:     "trailing annotation applies to paragraph",
			input:    "paragraph text {.lead}",
			expected: "<p class=\"lead\">paragraph text</p>\n",
		},
		{
			name:     "trailing annotation after a spaced link applies to paragraph",
			input:    "[a](https://example.com) {.note}",
			expected: "<p class=\"note\"><a href=\"https://example.com\" target=\"_blank\" rel=\"noopener noreferrer\">a</a></p>\n",
		},
		{
			name:     "trailing annotation on last line of paragraph",
			input:    "first line\nsecond line {.lead}",
			expected: "<p class=\"lead\">first line\nsecond line</p>\n",
		},
		{
			name:     "annotation inside a paragraph stays literal",
			input:    "text {.x} more",
			expected: "<p>text {.x} more</p>\n",
		},
		{
			name:     "annotation alone stays literal",
			input:    "{.x}",
			expected: "<p>{.x}</p>\n",
		},
		{
			name:     "emphasis annotation",
			input:    "*foo*{.x}",
			expected: "<p><em class=\"x\">foo</em></p>\n",
		},
		{
			name:     "strong emphasis annotation",
			input:    "a **bold**{#b} word",
			expected: "<p>a <strong id=\"b\">bold</strong> word</p>\n",
		},
		{
			name:     "unmatched delimiter keeps annotation literal",
			input:    "foo*{.x} bar",
			expected: "<p>foo*{.x} bar</p>\n",
		},
		{
			name:     "tight list item annotation",
			input:    "- one {.done}\n- two",
			expected: "<ul>\n<li class=\"done\">one</li>\n<li>two</li>\n</ul>\n",
		},
		{
			name:     "event handler annotation is not rendered",
			input:    "[a](https://example.com){onclick=evil data-id=7}",
			expected: "<p><a href=\"https://example.com\" data-id=\"7\" target=\"_blank\" rel=\"noopener noreferrer\">a</a></p>\n",
		},
		{
			name:     "image annotation",
			input:    "![alt](a.png){width=100}",
			expected: "<p><img src=\"a.png\" alt=\"alt\" width=\"100\"></p>\n",
		},
		{
			name:     "strikethrough",
			input:    "~~gone~~",
			expected: "<p><del>gone</del></p>\n",
		},
		{
			name:     "quotes are escaped in text",
			input:    `say "hi"`,
			expected: "<p>say &quot;hi&quot;</p>\n",
		},
		{
			name:     "shortcode is left for the expander",
			input:    "This is a [definition: meaning]word[/definition]",
			expected: "<p>This is a [definition: meaning]word[/definition]</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewEngine(EngineConfig{}).Convert(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Convert(%q)\n got: %q\nwant: %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEngineConvert_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      EngineConfig
		input    string
		contains string
	}{
		{
			name:     "hard wraps",
			cfg:      EngineConfig{HardWraps: true},
			input:    "a\nb",
			contains: "a<br>\nb",
		},
		{
			name:     "xhtml",
			cfg:      EngineConfig{XHTML: true, HardWraps: true},
			input:    "a\nb",
			contains: "a<br />\nb",
		},
		{
			name:     "linkify is hardened",
			cfg:      EngineConfig{Linkify: true},
			input:    "see https://example.com now",
			contains: `<a href="https://example.com" target="_blank" rel="noopener noreferrer">https://example.com</a>`,
		},
		{
			name:     "task list",
			cfg:      EngineConfig{TaskList: true},
			input:    "- [x] done",
			contains: `<input checked="" disabled="" type="checkbox">`,
		},
		{
			name:     "footnotes",
			cfg:      EngineConfig{Footnotes: true},
			input:    "text[^1]\n\n[^1]: note",
			contains: `class="footnotes"`,
		},
		{
			name:     "highlighting uses classes",
			cfg:      EngineConfig{HighlightStyle: "monokai"},
			input:    "```go\npackage main\n```",
			contains: `class="chroma"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewEngine(tt.cfg).Convert(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("expected output to contain %q, got %q", tt.contains, got)
			}
		})
	}
}

func TestEngineConvert_LinkifyDisabledByDefault(t *testing.T) {
	t.Parallel()

	got, err := NewEngine(EngineConfig{}).Convert(context.Background(), "see https://example.com now")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "<a") {
		t.Errorf("expected no link, got %q", got)
	}
}

func TestEngineConvert_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(EngineConfig{}).Convert(ctx, "*foo*")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEngine_RuleOverride(t *testing.T) {
	t.Parallel()

	engine := NewEngine(EngineConfig{})
	previous := engine.Rules().Lookup(ast.KindLink)
	engine.Rules().Set(ast.KindLink, func(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			node.SetAttribute([]byte("data-seen"), []byte("yes"))
		}
		return previous(w, source, node, entering)
	})

	got, err := engine.Convert(context.Background(), "[a](https://example.com)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<p><a href=\"https://example.com\" data-seen=\"yes\" target=\"_blank\" rel=\"noopener noreferrer\">a</a></p>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// A fresh engine does not see the override.
	fresh, err := NewEngine(EngineConfig{}).Convert(context.Background(), "[a](https://example.com)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(fresh, "data-seen") {
		t.Errorf("override leaked into new engine: %q", fresh)
	}
}

func TestEngineConvert_PanicIsReturned(t *testing.T) {
	t.Parallel()

	engine := NewEngine(EngineConfig{})
	engine.Rules().Set(ast.KindLink, func(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		panic("link rule exploded")
	})

	_, err := engine.Convert(context.Background(), "[a](https://example.com)")
	if !errors.Is(err, ErrHTMLConversion) {
		t.Fatalf("expected ErrHTMLConversion, got %v", err)
	}
	if !strings.Contains(err.Error(), "link rule exploded") {
		t.Errorf("error should carry the panic value, got %q", err)
	}
}

func TestEngineConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     EngineConfig
		wantErr error
	}{
		{"zero value", EngineConfig{}, nil},
		{"known style", EngineConfig{HighlightStyle: "github"}, nil},
		{"unknown style", EngineConfig{HighlightStyle: "no-such-style"}, ErrInvalidHighlightStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWrapDocument(t *testing.T) {
	t.Parallel()

	t.Run("escapes title", func(t *testing.T) {
		t.Parallel()

		got := WrapDocument("<p>x</p>\n", "A & B")
		if !strings.Contains(got, "<title>A &amp; B</title>") {
			t.Errorf("expected escaped title, got %q", got)
		}
		if !strings.HasPrefix(got, "<!DOCTYPE html>") {
			t.Errorf("expected doctype prefix, got %q", got)
		}
		if !strings.Contains(got, "<body>\n<p>x</p>\n") {
			t.Errorf("expected fragment in body, got %q", got)
		}
	})

	t.Run("default title", func(t *testing.T) {
		t.Parallel()

		got := WrapDocument("", "")
		if !strings.Contains(got, "<title>Document</title>") {
			t.Errorf("expected default title, got %q", got)
		}
	})
}
