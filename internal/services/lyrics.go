// Lyrics page parsing and cleaning
package services

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/desertthunder/lyrx/internal/shared"
)

const (
	lyricsContainerAttr = "data-lyrics-container"
	excludeAttr         = "data-exclude-from-selection"
)

// bracketed matches annotation spans such as [Chorus] or (x2). It does not cross line breaks.
var bracketed = regexp.MustCompile(`[\(\[].*?[\)\]]`)

// ExtractLyrics parses an HTML document and returns the raw text of every lyrics container in document order.
//
// Text nodes within a container are joined with "\n", as are the containers themselves.
// Returns [shared.ErrNoContent] when the page has no containers.
func ExtractLyrics(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse page: %v", shared.ErrMalformedResponse, err)
	}

	var blocks []string
	var find func(n *html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && attr(n, lyricsContainerAttr) == "true" {
			var texts []string
			collectText(n, &texts)
			blocks = append(blocks, strings.Join(texts, "\n"))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	if len(blocks) == 0 {
		return "", fmt.Errorf("%w: no lyrics containers", shared.ErrNoContent)
	}
	return strings.Join(blocks, "\n"), nil
}

// CleanLyrics strips bracketed annotations and drops lines left blank.
//
// Kept lines are trimmed. Unbalanced brackets on a single line are removed up to the first closer.
// Applying CleanLyrics to its own output returns it unchanged.
func CleanLyrics(raw string) string {
	stripped := bracketed.ReplaceAllString(raw, "")

	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func collectText(n *html.Node, texts *[]string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			*texts = append(*texts, c.Data)
		case html.ElementNode:
			if attr(c, excludeAttr) == "true" || c.Data == "script" || c.Data == "style" {
				continue
			}
			collectText(c, texts)
		}
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
