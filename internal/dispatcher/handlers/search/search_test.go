package search

import (
	"testing"

	"github.com/dshills/vimcore/internal/engine"
)

func TestKeywordAt(t *testing.T) {
	tests := []struct {
		text  string
		off   int
		word  string
		start int
		ok    bool
	}{
		{"foo bar", 1, "foo", 0, true},
		{"foo bar", 3, "bar", 4, true},
		{"  (x_1)", 0, "x_1", 3, true},
		{"a -> b", 2, "b", 5, true},
		{"-> ", 0, "->", 0, true},
		{"   ", 1, "", 0, false},
		{"日本 語", 0, "日本", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			doc := engine.NewDocument(tt.text)
			w, start, ok := keywordAt(doc, tt.off)
			if w != tt.word || start != tt.start || ok != tt.ok {
				t.Errorf("keywordAt(%q, %d) = %q, %d, %v; want %q, %d, %v",
					tt.text, tt.off, w, start, ok, tt.word, tt.start, tt.ok)
			}
		})
	}
}

func TestCutPattern(t *testing.T) {
	tests := []struct {
		line string
		sep  rune
		want string
	}{
		{"foo", '/', "foo"},
		{"foo/e", '/', "foo"},
		{`a\/b/`, '/', `a\/b`},
		{"foo/e", '?', "foo/e"},
		{"x?b", '?', "x"},
		{"", '/', ""},
	}
	for _, tt := range tests {
		if got := cutPattern(tt.line, tt.sep); got != tt.want {
			t.Errorf("cutPattern(%q, %q) = %q, want %q", tt.line, tt.sep, got, tt.want)
		}
	}
}
