package collector

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/morikuni/failure/v2"

	"github.com/newsroom-dev/newsroom/internal/log"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "newsroom/1.0"
)

// Extractor fetches one source and turns its page or feed into NewsItems.
// It holds no per-fetch state and is safe for concurrent use.
type Extractor struct {
	transport http.RoundTripper
	timeout   time.Duration
	userAgent string
	endpoints map[Source]string
}

type Option func(*Extractor)

// WithTransport sets the round tripper used for every request. It is wrapped
// with debug logging.
func WithTransport(rt http.RoundTripper) Option {
	return func(e *Extractor) {
		e.transport = rt
	}
}

func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(e *Extractor) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithEndpoint points a source at a different URL, e.g. a local fixture server.
func WithEndpoint(s Source, url string) Option {
	return func(e *Extractor) {
		e.endpoints[s] = url
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		transport: http.DefaultTransport,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		endpoints: make(map[Source]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) endpoint(s Source) string {
	if u, ok := e.endpoints[s]; ok {
		return u
	}
	return s.Endpoint()
}

// Fetch performs one GET against the source and returns at most limit items
// in the order they appear in the response.
func (e *Extractor) Fetch(ctx context.Context, source Source, limit int) ([]NewsItem, error) {
	if limit < 1 {
		return nil, failure.New(ErrInvalidLimit,
			failure.Message("Limit must be a positive integer"),
			failure.Context{"limit": strconv.Itoa(limit)},
		)
	}
	if !source.valid() {
		return nil, failure.New(ErrUnrecognizedSource,
			failure.Message("Unrecognized source"),
			failure.Context{"source": strconv.Itoa(int(source))},
		)
	}

	def := source.def()
	url := e.endpoint(source)
	logger := log.Logger.With("source", def.token, "url", url)
	logger.Debug("fetch source")

	body, err := e.get(ctx, url)
	if err != nil {
		logger.Debug("fetch failed", "error", err)
		return nil, failure.Wrap(err,
			failure.WithCode(ErrTransport),
			failure.Message("Could not reach "+def.label),
			failure.Context{"url": url},
		)
	}

	var items []NewsItem
	switch def.strategy {
	case strategyHTML:
		items, err = scrapeHTML(body, def.html, limit)
	case strategyFeed:
		items, err = readFeed(body, def.feed, limit)
	default:
		panic("collector: unhandled strategy for " + def.token)
	}
	if err != nil {
		logger.Debug("extract failed", "error", err)
		return nil, failure.Wrap(err, failure.Context{"source": def.token})
	}

	logger.Debug("fetch done", "items", len(items))
	return items, nil
}

// get issues a single request through a fresh collector and returns the
// whole body; the collector's default body cap is lifted so large pages are
// never cut short. colly reports every status of 203 or above as an error,
// so a 204 or a redirect it did not follow counts as a transport failure.
func (e *Extractor) get(ctx context.Context, url string) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(e.userAgent),
		colly.StdlibContext(ctx),
		colly.MaxBodySize(0),
	)
	c.SetRequestTimeout(e.timeout)
	c.WithTransport(log.Transport(e.transport))

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		return nil, err
	}
	return body, nil
}
