package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// skippedTags are never rendered to text.
var skippedTags = map[string]bool{
	"script": true,
	"style":  true,
	"head":   true,
}

// blockTags end a line when rendered to text.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "tr": true,
}

// CleanResponse normalizes a model reply to plain text. It removes Markdown
// code fences, a single pair of quotes wrapping the whole reply, and renders
// HTML markup to text.
func CleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = stripFences(s)
	s = stripQuotes(s)

	if looksLikeHTML(s) {
		if text, ok := htmlToText(s); ok {
			s = text
		}
	}
	return strings.TrimSpace(s)
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Drop the opening fence line, which may carry a language hint.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func stripQuotes(s string) string {
	for _, pair := range [][2]string{{`"`, `"`}, {"“", "”"}, {"«", "»"}} {
		if len(s) > len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			inner := s[len(pair[0]) : len(s)-len(pair[1])]
			// Keep quotes that open or close inner quotations.
			if !strings.Contains(inner, pair[0]) && !strings.Contains(inner, pair[1]) {
				return strings.TrimSpace(inner)
			}
		}
	}
	return s
}

func looksLikeHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && i+1 < len(s) && isTagStart(s[i+1]) && strings.Contains(s[i:], ">")
}

func isTagStart(c byte) bool {
	return c == '/' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// htmlToText renders the body of s as text, with line breaks for <br> and
// block elements. It reports false when s holds no elements.
func htmlToText(s string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", false
	}
	body := doc.Find("body")
	if body.Find("*").Length() == 0 {
		return "", false
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			tag := strings.ToLower(n.Data)
			if skippedTags[tag] {
				return
			}
			if tag == "br" {
				b.WriteString("\n")
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			if blockTags[tag] {
				b.WriteString("\n")
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body.Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	})

	return collapseBlankLines(b.String()), true
}

// collapseBlankLines trims each line and keeps at most one empty line in a row.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
