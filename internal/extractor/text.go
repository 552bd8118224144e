package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockElements get a line break around their content when flattened to text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "section": true, "table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// BlockText flattens a selection to text, breaking lines at block-level elements.
func BlockText(sel *goquery.Selection) string {
	var b strings.Builder

	for _, n := range sel.Nodes {
		writeBlockText(n, &b)
	}

	return b.String()
}

func writeBlockText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)

		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeBlockText(c, b)
	}

	if block {
		b.WriteByte('\n')
	}
}

// Lines returns the non-empty, whitespace-collapsed lines of a selection's text.
func Lines(sel *goquery.Selection) []string {
	var lines []string

	for _, line := range strings.Split(BlockText(sel), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
