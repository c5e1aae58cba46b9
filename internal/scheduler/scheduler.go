package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chris/journal/internal/journal"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// lastWindowNote records the most recent hourly window a pass ran for.
const lastWindowNote = "scheduler.last_window"

// ErrBusy is reported when a tick starts while another pass is running.
var ErrBusy = errors.New("scheduler: pass already running")

// Deliverer is what a pass reads users from and sends prompts through.
type Deliverer interface {
	Snapshot(ctx context.Context) ([]*journal.User, error)
	DeliverScheduled(ctx context.Context, id string) error
}

// Notes persists small scheduler state across restarts.
type Notes interface {
	GetNote(ctx context.Context, key string) (string, error)
	SetNote(ctx context.Context, key, value string) error
}

type Options struct {
	// Spec is a standard five-field cron expression. Defaults to hourly.
	Spec        string
	Location    *time.Location
	Concurrency int
	Notes       Notes
	Logger      *zap.Logger
	Now         func() time.Time
}

// TickResult summarizes one evaluation pass.
type TickResult struct {
	ID        string
	Slot      Slot
	Due       int
	Delivered int
	Failed    int
	Skipped   bool
	Err       error
}

type Scheduler struct {
	cron        *cron.Cron
	deliverer   Deliverer
	notes       Notes
	loc         *time.Location
	concurrency int
	now         func() time.Time
	logger      *zap.Logger

	running sync.Mutex

	ctxMu sync.Mutex
	ctx   context.Context
}

func New(d Deliverer, opts Options) (*Scheduler, error) {
	s := &Scheduler{
		deliverer:   d,
		notes:       opts.Notes,
		loc:         opts.Location,
		concurrency: opts.Concurrency,
		now:         opts.Now,
		logger:      opts.Logger,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.concurrency <= 0 {
		s.concurrency = 1
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("scheduler")

	spec := opts.Spec
	if spec == "" {
		spec = "0 * * * *"
	}
	cl := cronLogger{s.logger.Sugar()}
	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("scheduling tick %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing ticks. Passes carry ctx's values but not its
// cancellation.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctxMu.Lock()
	s.ctx = ctx
	s.ctxMu.Unlock()
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("location", s.loc.String()))
}

// Stop prevents new ticks and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run() {
	s.ctxMu.Lock()
	ctx := s.ctx
	s.ctxMu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	s.Tick(ctx)
}

// Tick runs one evaluation pass for the current hour. Only one pass runs at a
// time, and a window that already had a pass is not delivered again. A pass
// always runs to completion over its snapshot: cancelling ctx does not stop it.
func (s *Scheduler) Tick(ctx context.Context) TickResult {
	ctx = context.WithoutCancel(ctx)
	now := s.now()
	res := TickResult{ID: uuid.NewString(), Slot: SlotAt(now, s.loc)}
	log := s.logger.With(zap.String("tick_id", res.ID), zap.Stringer("slot", res.Slot))

	if !s.running.TryLock() {
		log.Warn("skipping tick, previous pass still running")
		res.Skipped = true
		res.Err = ErrBusy
		return res
	}
	defer s.running.Unlock()

	window := windowKey(now, s.loc)
	if s.notes != nil {
		last, err := s.notes.GetNote(ctx, lastWindowNote)
		if err != nil {
			log.Warn("reading last window", zap.Error(err))
		} else if last == window {
			log.Info("window already handled", zap.String("window", window))
			res.Skipped = true
			return res
		}
	}

	users, err := s.deliverer.Snapshot(ctx)
	if err != nil {
		log.Error("listing users", zap.Error(err))
		res.Err = err
		return res
	}
	due := Due(users, res.Slot)
	res.Due = len(due)

	// The window is claimed before dispatch so a restart mid-pass cannot
	// deliver twice.
	if s.notes != nil {
		if err := s.notes.SetNote(ctx, lastWindowNote, window); err != nil {
			log.Warn("recording window", zap.Error(err))
		}
	}

	var delivered, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, id := range due {
		g.Go(func() error {
			if err := s.deliverer.DeliverScheduled(ctx, id); err != nil {
				failed.Add(1)
				log.Warn("scheduled delivery failed", zap.String("user_id", id), zap.Error(err))
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res.Delivered = int(delivered.Load())
	res.Failed = int(failed.Load())
	log.Info("tick complete",
		zap.Int("users", len(users)),
		zap.Int("due", res.Due),
		zap.Int("delivered", res.Delivered),
		zap.Int("failed", res.Failed),
	)
	return res
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
