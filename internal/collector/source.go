package collector

import (
	"github.com/morikuni/failure/v2"
)

// Source is one of the sites newsroom knows how to read.
type Source int

const (
	HackerNews Source = iota
	ProductHunt
	TechMeme
	WSJ
	GithubTrending
)

type strategy int

const (
	strategyHTML strategy = iota
	strategyFeed
)

// pipelineOrder decides whether the limit is applied to raw matched elements
// or to the records that survive filtering.
type pipelineOrder int

const (
	truncateThenFilter pipelineOrder = iota
	filterThenTruncate
)

// htmlQuery describes how to pull records out of a scraped page. An empty
// Title selector means the matched element's own text is the title; an
// empty Description selector means the source has no description.
type htmlQuery struct {
	Item               string
	Title              string
	Description        string
	RequireDescription bool
	Order              pipelineOrder
	DedupAdjacent      bool
}

type feedRule struct {
	// StrictTitle makes an untitled item fail the whole fetch instead of
	// being skipped.
	StrictTitle bool
	Description bool
}

type sourceDef struct {
	token    string
	label    string
	endpoint string
	strategy strategy
	html     htmlQuery
	feed     feedRule
}

// catalog is indexed by Source. New sources are appended, never reordered.
var catalog = [...]sourceDef{
	HackerNews: {
		token:    "hackernews",
		label:    "HACKER NEWS",
		endpoint: "https://news.ycombinator.com/",
		strategy: strategyHTML,
		html: htmlQuery{
			Item:  "span.titleline > a",
			Order: truncateThenFilter,
		},
	},
	ProductHunt: {
		token:    "producthunt",
		label:    "PRODUCT HUNT",
		endpoint: "https://www.producthunt.com/",
		strategy: strategyHTML,
		html: htmlQuery{
			Item:               `div[class^="styles_container"]:nth-child(2) div[class^="styles_content"]`,
			Title:              "h3 a[data-test]",
			Description:        "p a",
			RequireDescription: true,
			Order:              filterThenTruncate,
			DedupAdjacent:      true,
		},
	},
	TechMeme: {
		token:    "techmeme",
		label:    "TECHMEME",
		endpoint: "https://www.techmeme.com/feed.xml",
		strategy: strategyFeed,
		feed:     feedRule{},
	},
	WSJ: {
		token:    "wsj",
		label:    "WALL STREET JOURNAL",
		endpoint: "https://feeds.a.dj.com/rss/RSSWSJD.xml",
		strategy: strategyFeed,
		feed:     feedRule{StrictTitle: true, Description: true},
	},
	GithubTrending: {
		token:    "github-trending",
		label:    "GITHUB TRENDING",
		endpoint: "https://github.com/trending",
		strategy: strategyHTML,
		html: htmlQuery{
			Item:        "article.Box-row",
			Title:       "h2",
			Description: "p",
			Order:       truncateThenFilter,
		},
	},
}

// AllSources returns every known source in declaration order.
func AllSources() []Source {
	all := make([]Source, len(catalog))
	for i := range catalog {
		all[i] = Source(i)
	}
	return all
}

// ParseSource maps a token such as "github-trending" to its Source. The
// match is exact: no trimming and no case folding.
func ParseSource(token string) (Source, error) {
	for i, def := range catalog {
		if def.token == token {
			return Source(i), nil
		}
	}
	return 0, failure.New(ErrUnrecognizedSource,
		failure.Message("Unrecognized source "+token),
		failure.Context{
			"source": token,
		},
	)
}

func (s Source) valid() bool {
	return s >= 0 && int(s) < len(catalog)
}

func (s Source) def() sourceDef {
	if !s.valid() {
		panic("collector: unknown source value")
	}
	return catalog[s]
}

// String returns the display label, e.g. "HACKER NEWS".
func (s Source) String() string {
	if !s.valid() {
		return "UNKNOWN"
	}
	return catalog[s].label
}

// Token returns the lowercase token accepted by ParseSource.
func (s Source) Token() string {
	return s.def().token
}

// Endpoint returns the fixed URL the source is read from.
func (s Source) Endpoint() string {
	return s.def().endpoint
}

// IsFeed reports whether the source is read as a syndication feed.
func (s Source) IsFeed() bool {
	return s.def().strategy == strategyFeed
}

func (s Source) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, failure.New(ErrUnrecognizedSource, failure.Message("Unrecognized source"))
	}
	return []byte(s.Token()), nil
}

func (s *Source) UnmarshalText(text []byte) error {
	parsed, err := ParseSource(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
