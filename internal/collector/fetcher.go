package collector

import "context"

// NewsItem 统一采集后的基础结构
type NewsItem struct {
	Title string `json:"title"`
	// Description is nil when the source has none for this item.
	Description *string `json:"description,omitempty"`
}

// NewItem builds a NewsItem; an empty description is treated as absent.
func NewItem(title, description string) NewsItem {
	item := NewsItem{Title: title}
	if description != "" {
		item.Description = &description
	}
	return item
}

// Equal reports structural equality of title and description.
func (n NewsItem) Equal(o NewsItem) bool {
	if n.Title != o.Title {
		return false
	}
	if n.Description == nil || o.Description == nil {
		return n.Description == nil && o.Description == nil
	}
	return *n.Description == *o.Description
}

func (n NewsItem) String() string {
	if n.Description != nil {
		return n.Title + " - " + *n.Description
	}
	return n.Title
}

// Fetcher 抽象每一个数据源
type Fetcher interface {
	Fetch(ctx context.Context, source Source, limit int) ([]NewsItem, error)
}

var _ Fetcher = (*Extractor)(nil)
