// Package scheduler drives the engine's time-based rules: a frequent tick
// that re-derives counters and fires milestones, and a daily quest rollover
// at local midnight.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"lifesystem/core"
)

// RolloverSpec is the daily quest rollover, at midnight in the configured zone.
const RolloverSpec = "0 0 * * *"

// Target is the part of the engine the scheduler drives.
type Target interface {
	Tick(ctx context.Context)
	GenerateDailyQuests(ctx context.Context) ([]core.Quest, error)
}

// Config configures a Scheduler.
type Config struct {
	// Interval between ticks. cron rounds anything below a second up to one.
	Interval time.Duration
	Location *time.Location
	Logger   *slog.Logger
}

type Scheduler struct {
	cron     *cron.Cron
	target   Target
	log      *slog.Logger
	rollover cron.Schedule
	loc      *time.Location

	ctx    context.Context
	cancel context.CancelFunc
}

// New registers the tick and rollover jobs. Nothing runs until Start.
func New(target Target, cfg Config) (*Scheduler, error) {
	if target == nil {
		return nil, fmt.Errorf("scheduler: nil target")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("scheduler: interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	rollover, err := parser.Parse(RolloverSpec)
	if err != nil {
		return nil, err
	}

	clog := cronLogger{cfg.Logger}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithParser(parser),
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
		),
		target:   target,
		log:      cfg.Logger,
		rollover: rollover,
		loc:      cfg.Location,
		ctx:      ctx,
		cancel:   cancel,
	}

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", cfg.Interval), s.tick); err != nil {
		cancel()
		return nil, fmt.Errorf("scheduler: tick: %w", err)
	}
	s.cron.Schedule(rollover, cron.FuncJob(s.rolloverQuests))
	return s, nil
}

// Start runs the jobs in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }

// NextRollover is when today's quests are next replaced after now.
func (s *Scheduler) NextRollover(now time.Time) time.Time {
	return s.rollover.Next(now.In(s.loc))
}

func (s *Scheduler) tick() { s.target.Tick(s.ctx) }

func (s *Scheduler) rolloverQuests() {
	quests, err := s.target.GenerateDailyQuests(s.ctx)
	if err != nil {
		s.log.Warn("daily quest rollover failed", "error", err)
		return
	}
	s.log.Info("daily quests ready", "count", len(quests))
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct{ log *slog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
