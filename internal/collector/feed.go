package collector

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/morikuni/failure/v2"

	"github.com/newsroom-dev/newsroom/internal/processor"
)

// readFeed maps feed items to NewsItems in document order. With
// StrictTitle unset, untitled items are skipped before truncation; with it
// set, the limit is applied first and an untitled item among the kept ones
// fails the whole feed.
func readFeed(body []byte, rule feedRule, limit int) ([]NewsItem, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, failure.Wrap(err,
			failure.WithCode(ErrFeedParse),
			failure.Message("Could not parse feed"),
		)
	}

	entries := feed.Items
	if !rule.StrictTitle {
		entries = processor.Filter(entries, func(it *gofeed.Item) bool {
			return strings.TrimSpace(it.Title) != ""
		})
	}
	entries = processor.Truncate(entries, limit)

	items := make([]NewsItem, 0, len(entries))
	for i, it := range entries {
		// blank text counts as absent, for titles and descriptions alike
		title := strings.TrimSpace(it.Title)
		if title == "" {
			// TODO: skip untitled items here too once nothing depends on WSJ failing loudly.
			return nil, failure.New(ErrMissingTitle,
				failure.Message("Feed item has no title"),
				failure.Context{"index": strconv.Itoa(i)},
			)
		}
		var description string
		if rule.Description {
			description = strings.TrimSpace(it.Description)
		}
		items = append(items, NewItem(title, description))
	}
	return items, nil
}
