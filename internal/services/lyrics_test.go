package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/lyrx/internal/shared"
)

const lyricsPage = `<!DOCTYPE html>
<html><head><title>Obsesión</title><script>var x = "[not lyrics]";</script></head>
<body>
<div class="header">Aventura - Obsesión</div>
<div data-lyrics-container="true" class="Lyrics__Container">
  <div data-exclude-from-selection="true">12 Contributors</div>
  [Intro: Romeo Santos]<br/>Amor (amor)<br/><a href="/x"><span>No es amor</span></a><br/>
  <br/>[Verso 1]<br/>Me dice que te sueña &amp; que te quiere
</div>
<div class="ad">Advertisement</div>
<div data-lyrics-container="true">[Coro]<br/>Es obsesión</div>
</body></html>`

func TestExtractLyrics(t *testing.T) {
	t.Run("Collects Containers In Order", func(t *testing.T) {
		raw, err := ExtractLyrics(strings.NewReader(lyricsPage))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(raw, "Contributors") {
			t.Error("expected excluded subtree to be skipped")
		}
		if strings.Contains(raw, "Advertisement") || strings.Contains(raw, "Aventura - Obsesión") {
			t.Error("expected text outside containers to be ignored")
		}
		if !strings.Contains(raw, "No es amor") {
			t.Error("expected nested inline text to be collected")
		}
		if !strings.Contains(raw, "que te sueña & que te quiere") {
			t.Error("expected entities to be decoded")
		}
		first := strings.Index(raw, "Amor")
		second := strings.Index(raw, "Es obsesión")
		if first < 0 || second < 0 || first > second {
			t.Errorf("expected containers in document order, got %q", raw)
		}
	})

	t.Run("Line Breaks Become Separators", func(t *testing.T) {
		raw, err := ExtractLyrics(strings.NewReader(`<div data-lyrics-container="true">one<br>two</div>`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if raw != "one\ntwo" {
			t.Errorf("expected %q, got %q", "one\ntwo", raw)
		}
	})

	t.Run("No Containers", func(t *testing.T) {
		_, err := ExtractLyrics(strings.NewReader(`<html><body><p>nothing</p></body></html>`))
		if !errors.Is(err, shared.ErrNoContent) {
			t.Errorf("expected ErrNoContent, got %v", err)
		}
	})

	t.Run("Container Attribute Must Be True", func(t *testing.T) {
		_, err := ExtractLyrics(strings.NewReader(`<div data-lyrics-container="false">x</div>`))
		if !errors.Is(err, shared.ErrNoContent) {
			t.Errorf("expected ErrNoContent, got %v", err)
		}
	})
}

func TestCleanLyrics(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips section headers",
			input: "[Verse 1]\nHello there\n[Chorus]\nSing it",
			want:  "Hello there\nSing it",
		},
		{
			name:  "strips inline parentheticals",
			input: "Amor (amor)\nDale (x2) dale",
			want:  "Amor\nDale  dale",
		},
		{
			name:  "drops blank and whitespace lines",
			input: "\n\n  \nline\n\t\n",
			want:  "line",
		},
		{
			name:  "does not cross line breaks",
			input: "open ( here\nclose ) there",
			want:  "open ( here\nclose ) there",
		},
		{
			name:  "mismatched pair on one line",
			input: "a (b] c",
			want:  "a  c",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanLyrics(tt.input); got != tt.want {
				t.Errorf("CleanLyrics() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("Idempotent", func(t *testing.T) {
		inputs := []string{
			"[Intro]\nAmor (amor)\n\nNo es amor\n",
			"([a)] tail\n[[nested]] x",
			"open ( here\nclose ) there",
			"a (b] c [d) e",
			lyricsPage,
		}
		for _, in := range inputs {
			once := CleanLyrics(in)
			if twice := CleanLyrics(once); twice != once {
				t.Errorf("CleanLyrics not idempotent for %q: %q then %q", in, once, twice)
			}
		}
	})
}
