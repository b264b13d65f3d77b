package websearch

import (
	"strings"

	"golang.org/x/net/html"
)

// parseResults walks the document in order, examines the first maxBlocks
// nodes carrying the "result" class token, and emits those with a non-empty
// title and snippet. The cap applies to examined blocks, not emitted ones.
func parseResults(doc *html.Node, maxBlocks int) []Result {
	blocks := findByClass(doc, "result", maxBlocks)

	var results []Result
	for _, block := range blocks {
		title := textOfClass(block, "result__title")
		snippet := textOfClass(block, "result__snippet")
		rawURL := textOfClass(block, "result__url")

		if title == "" || snippet == "" {
			continue
		}
		results = append(results, Result{
			Title:   title,
			Snippet: snippet,
			URL:     rawURL,
		})
	}
	return results
}

// findByClass returns up to limit element nodes whose class attribute
// contains the given token, in document order. limit <= 0 means no limit.
func findByClass(root *html.Node, class string, limit int) []*html.Node {
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if limit > 0 && len(matches) >= limit {
			return
		}
		if n.Type == html.ElementNode && hasClassToken(n, class) {
			matches = append(matches, n)
			// Result blocks do not nest; skip descendants.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return matches
}

// textOfClass returns the trimmed text content of the first descendant of n
// carrying the class token, or "".
func textOfClass(n *html.Node, class string) string {
	nodes := findByClass(n, class, 1)
	if len(nodes) == 0 {
		return ""
	}
	return strings.TrimSpace(collectText(nodes[0]))
}

// hasClassToken reports whether n's class attribute contains class as a
// whitespace-separated token.
func hasClassToken(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

// collectText concatenates all text nodes under n.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
