package pacific

import (
	"log"
	"strings"

	"golang.org/x/net/html"
)

// parseSearchOptions walks the search-form markup and returns the visible
// text of every option under the search_id select, i.e. the saved searches
// the account can run.
func parseSearchOptions(markup string) []string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		log.Printf("Error parsing search form markup: %v", err)
		return nil
	}

	var options []string
	var findSelect func(*html.Node)
	findSelect = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "select" && attrValue(n, "name") == "search_id" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == "option" {
					if text := nodeText(c); text != "" {
						options = append(options, text)
					}
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findSelect(c)
		}
	}
	findSelect(doc)
	return options
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}
