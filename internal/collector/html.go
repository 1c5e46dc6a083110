package collector

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/morikuni/failure/v2"
	"golang.org/x/net/html"

	"github.com/newsroom-dev/newsroom/internal/processor"
)

// scrapeHTML 页面结构可能调整，选择器只做“尽力而为”的解析；
// 标签不闭合等问题交给 x/net/html 容错处理。
func scrapeHTML(body []byte, q htmlQuery, limit int) ([]NewsItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, failure.Wrap(err,
			failure.WithCode(ErrHTMLParse),
			failure.Message("Could not parse page"),
		)
	}

	var matched []*goquery.Selection
	doc.Find(q.Item).Each(func(_ int, s *goquery.Selection) {
		matched = append(matched, s)
	})

	if q.Order == truncateThenFilter {
		matched = processor.Truncate(matched, limit)
	}

	items := make([]NewsItem, 0, len(matched))
	for _, s := range matched {
		if item, ok := q.extract(s); ok {
			items = append(items, item)
		}
	}

	if q.DedupAdjacent {
		items = processor.DedupAdjacent(items, NewsItem.Equal)
	}
	if q.Order == filterThenTruncate {
		items = processor.Truncate(items, limit)
	}
	return items, nil
}

// extract reads title and description out of one matched element. An
// element whose title, or required description, is empty is dropped.
func (q htmlQuery) extract(s *goquery.Selection) (NewsItem, bool) {
	title := textOf(s)
	if q.Title != "" {
		title = textOf(s.Find(q.Title).First())
	}
	if title == "" {
		return NewsItem{}, false
	}

	var description string
	if q.Description != "" {
		description = textOf(s.Find(q.Description).First())
		if description == "" && q.RequireDescription {
			return NewsItem{}, false
		}
	}
	return NewItem(title, description), true
}

// textOf joins every text node under the selection, each trimmed on its own.
func textOf(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}
