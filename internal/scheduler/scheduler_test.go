package scheduler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsroom-dev/newsroom/internal/collector"
)

// fakeFetcher answers from a table; earlier sources sleep longer so they
// finish last.
type fakeFetcher struct {
	delay   map[collector.Source]time.Duration
	fail    map[collector.Source]error
	running atomic.Int32
	peak    atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, s collector.Source, limit int) ([]collector.NewsItem, error) {
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	time.Sleep(f.delay[s])
	if err := f.fail[s]; err != nil {
		return nil, err
	}
	return []collector.NewsItem{collector.NewItem(s.Token(), "")}, nil
}

func TestRunOnceKeepsInputOrder(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFetcher{
		delay: map[collector.Source]time.Duration{
			collector.HackerNews:  60 * time.Millisecond,
			collector.ProductHunt: 40 * time.Millisecond,
			collector.TechMeme:    20 * time.Millisecond,
		},
		fail: map[collector.Source]error{collector.ProductHunt: boom},
	}

	sources := collector.AllSources()
	results := RunOnce(context.Background(), f, sources, 10)

	require.Len(t, results, len(sources))
	for i, r := range results {
		assert.Equal(t, sources[i], r.Source)
	}

	assert.ErrorIs(t, results[1].Err, boom)
	assert.Nil(t, results[1].Items)
	for _, i := range []int{0, 2, 3, 4} {
		require.NoError(t, results[i].Err)
		require.Len(t, results[i].Items, 1)
		assert.Equal(t, sources[i].Token(), results[i].Items[0].Title)
	}
	assert.LessOrEqual(t, int(f.peak.Load()), len(sources))
}

func TestRunOnceFetchesConcurrently(t *testing.T) {
	delay := 100 * time.Millisecond
	f := &fakeFetcher{delay: map[collector.Source]time.Duration{}}
	for _, s := range collector.AllSources() {
		f.delay[s] = delay
	}

	start := time.Now()
	RunOnce(context.Background(), f, collector.AllSources(), 10)

	assert.Less(t, time.Since(start), 3*delay)
	assert.Equal(t, int32(len(collector.AllSources())), f.peak.Load())
}

func TestRunOnceEmpty(t *testing.T) {
	results := RunOnce(context.Background(), &fakeFetcher{}, nil, 10)
	assert.Empty(t, results)
}

func TestRunOnceUnreachableSourceDoesNotPoisonOthers(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>` +
			`<item><title>A</title></item><item><title></title></item><item><title>C</title></item>` +
			`</channel></rss>`))
	}))
	t.Cleanup(feed.Close)

	e := collector.NewExtractor(
		collector.WithEndpoint(collector.HackerNews, downURL+"/"),
		collector.WithEndpoint(collector.TechMeme, feed.URL+"/feed.xml"),
	)

	results := RunOnce(context.Background(), e, []collector.Source{collector.HackerNews, collector.TechMeme}, 10)
	require.Len(t, results, 2)

	assert.Equal(t, collector.ErrTransport, collector.CodeOf(results[0].Err))

	require.NoError(t, results[1].Err)
	assert.Equal(t, []collector.NewsItem{{Title: "A"}, {Title: "C"}}, results[1].Items)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	_, err := New("not a cron spec", &fakeFetcher{}, collector.AllSources(), 10, func([]Result) {})
	assert.Error(t, err)
}

func TestSchedulerStartRunsImmediately(t *testing.T) {
	got := make(chan []Result, 1)
	s, err := New("@every 1h", &fakeFetcher{}, []collector.Source{collector.WSJ}, 3, func(r []Result) {
		got <- r
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case r := <-got:
		require.Len(t, r, 1)
		assert.Equal(t, collector.WSJ, r[0].Source)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not run on start")
	}
}

func TestSchedulerStopWaitsForStartupRun(t *testing.T) {
	var finished atomic.Bool
	s, err := New("@every 1h", &fakeFetcher{}, []collector.Source{collector.WSJ}, 3, func([]Result) {
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
	})
	require.NoError(t, err)

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	assert.True(t, finished.Load(), "Stop returned before the startup run finished")
}

func TestSchedulerSkipsTickDuringStartupRun(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	s, err := New("@every 1h", &fakeFetcher{}, []collector.Source{collector.WSJ}, 3, func([]Result) {
		if calls.Add(1) == 1 {
			<-release
		}
	})
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	// a tick arriving now goes through the same job and must be dropped
	done := make(chan struct{})
	go func() {
		s.job.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("overlapping run was not skipped")
	}
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	s.Stop()
	assert.Equal(t, int32(1), calls.Load())
}
