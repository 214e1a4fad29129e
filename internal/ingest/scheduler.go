package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the ingest cycle every interval after an initial delay.
// A failing cycle is logged and the schedule carries on.
type Scheduler struct {
	ingestor     *Ingestor
	interval     time.Duration
	startupDelay time.Duration
	log          *logrus.Entry
	cron         *cron.Cron
	chain        cron.Chain
}

func NewScheduler(ing *Ingestor, interval, startupDelay time.Duration, log *logrus.Entry) *Scheduler {
	cl := cron.PrintfLogger(log)
	return &Scheduler{
		ingestor:     ing,
		interval:     interval,
		startupDelay: startupDelay,
		log:          log,
		cron:         cron.New(cron.WithLogger(cl)),
		chain:        cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", s.interval)
	}
	if s.startupDelay > 0 {
		s.log.Infof("waiting %s before the first scrape", s.startupDelay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.startupDelay):
		}
	}

	// одна обёртка на тики и первый проход: SkipIfStillRunning не даёт им пересечься
	job := s.chain.Then(cron.FuncJob(func() { s.cycle(ctx) }))
	s.cron.Schedule(cron.Every(s.interval), job)
	s.cron.Start()
	s.log.Infof("scraping every %s", s.interval)

	// первый проход сразу, не дожидаясь тика
	job.Run()

	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.ingestor.RunOnce(ctx); err != nil {
		s.log.WithError(err).Error("scrape cycle failed")
	}
}
