package wikipedia

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractGenres returns the genre labels in an article's markup.
//
// The hAudio microformat (td.category links) is preferred. When it yields
// nothing, the infobox row headed by a "Genre" link is used instead. The two
// are never merged. Unparseable markup yields nil.
func ExtractGenres(markup []byte) []string {
	doc, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return nil
	}

	if genres := haudioGenres(doc); len(genres) > 0 {
		return genres
	}
	return infoboxGenres(doc)
}

// haudioGenres reads table.haudio td.category > a.
func haudioGenres(doc *html.Node) []string {
	var genres []string
	for _, table := range findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Table && hasClass(n, "haudio")
	}) {
		for _, td := range findAll(table, func(n *html.Node) bool {
			return n.DataAtom == atom.Td && attr(n, "class") == "category"
		}) {
			for c := td.FirstChild; c != nil; c = c.NextSibling {
				if c.DataAtom == atom.A {
					genres = appendText(genres, c)
				}
			}
		}
	}
	return genres
}

// infoboxGenres reads the table.infobox row whose th holds a link titled
// exactly "Genre" and returns the links in that row's td cells. Links inside
// footnote markers are skipped.
func infoboxGenres(doc *html.Node) []string {
	var genres []string
	for _, table := range findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Table && hasClass(n, "infobox")
	}) {
		for _, th := range findAll(table, func(n *html.Node) bool {
			return n.DataAtom == atom.Th && hasGenreLink(n)
		}) {
			row := th.Parent
			if row == nil {
				continue
			}
			for td := row.FirstChild; td != nil; td = td.NextSibling {
				if td.DataAtom != atom.Td {
					continue
				}
				for _, a := range findAll(td, isLink) {
					genres = appendText(genres, a)
				}
			}
		}
	}
	return genres
}

func hasGenreLink(th *html.Node) bool {
	for c := th.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.A && text(c) == "Genre" {
			return true
		}
	}
	return false
}

// isLink matches anchors that are not inside a sup element.
func isLink(n *html.Node) bool {
	if n.DataAtom != atom.A {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Sup {
			return false
		}
	}
	return true
}

func appendText(genres []string, n *html.Node) []string {
	if t := strings.TrimSpace(text(n)); t != "" {
		return append(genres, t)
	}
	return genres
}

// findAll returns the descendants of n matching fn in document order. A
// matching node's own descendants are still searched.
func findAll(n *html.Node, fn func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && fn(c) {
			out = append(out, c)
		}
		out = append(out, findAll(c, fn)...)
	}
	return out
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return strings.Contains(attr(n, "class"), class)
}
