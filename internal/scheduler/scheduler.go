package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/newsroom-dev/newsroom/internal/collector"
	"github.com/newsroom-dev/newsroom/internal/log"
)

// Result is the outcome of fetching one source.
type Result struct {
	Source collector.Source
	Items  []collector.NewsItem
	Err    error
}

// RunOnce fetches every source concurrently, one worker per source, and
// returns the results in the order of sources regardless of which fetch
// finishes first. A failing source never cancels the others.
func RunOnce(ctx context.Context, f collector.Fetcher, sources []collector.Source, limit int) []Result {
	results := make([]Result, len(sources))

	var g errgroup.Group
	g.SetLimit(max(len(sources), 1))
	for i, s := range sources {
		g.Go(func() error {
			items, err := f.Fetch(ctx, s, limit)
			if err != nil {
				log.Warn("fetch failed", "source", s.Token(), "error", err)
			} else {
				log.Debug("fetch done", "source", s.Token(), "items", len(items))
			}
			// 每个任务只写自己的下标，无需加锁
			results[i] = Result{Source: s, Items: items, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Sink receives the results of one scheduled run.
type Sink func([]Result)

// Scheduler re-runs RunOnce on a cron schedule. Runs are independent: nothing
// is carried over between them.
type Scheduler struct {
	cron    *cron.Cron
	job     cron.Job
	wg      sync.WaitGroup
	fetcher collector.Fetcher
	sources []collector.Source
	limit   int
	sink    Sink
}

func New(spec string, f collector.Fetcher, sources []collector.Source, limit int, sink Sink) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		fetcher: f,
		sources: sources,
		limit:   limit,
		sink:    sink,
	}

	// 上一轮未结束时跳过本轮，避免输出交错；启动时的首轮也走同一个包装
	s.job = cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(s.runOnce))
	if _, err := s.cron.AddJob(spec, s.job); err != nil {
		return nil, err
	}

	return s, nil
}

// Start runs one collection immediately and then follows the schedule. The
// immediate run shares the schedule's overlap guard, so a tick that fires
// while it is still going is skipped.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()
}

// Stop halts the schedule and waits for every run in progress, including the
// one started by Start.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发采集
func (s *Scheduler) RunOnce(ctx context.Context) []Result {
	return RunOnce(ctx, s.fetcher, s.sources, s.limit)
}

func (s *Scheduler) runOnce() {
	log.Info("start collect job", "sources", len(s.sources))
	results := s.RunOnce(context.Background())
	s.sink(results)
	log.Info("collect job done")
}
