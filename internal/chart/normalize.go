// Package chart locates and parses the weekly word-of-mouth ranking on the
// movie chart page.
//
// Nothing in this package fails because markup is missing: a page without the
// heading, the list or well-formed items yields nil/empty values instead.
package chart

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Normalize trims surrounding whitespace and turns non-breaking spaces into
// plain ones
func Normalize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\u00a0", " ")
}

// Text returns the normalized text of the first node in sel. Text nodes are
// joined with a single space so that "<h2>A<span>B</span></h2>" reads "A B".
func Text(sel *goquery.Selection) string {
	if sel == nil || len(sel.Nodes) == 0 {
		return ""
	}
	return Normalize(nodeText(sel.Nodes[0]))
}

func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
