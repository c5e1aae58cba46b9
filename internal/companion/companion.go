// Package companion runs the journaling conversation: it opens and completes
// prompt sessions, answers schedule and history commands, and serializes every
// mutation of a user record.
package companion

import (
	"context"
	"errors"
	"time"

	"github.com/chris/journal/internal/journal"
	"github.com/chris/journal/internal/prompts"
	"go.uber.org/zap"
)

// Store is the user persistence the companion needs.
type Store interface {
	GetUser(ctx context.Context, id string) (*journal.User, error)
	PutUser(ctx context.Context, u *journal.User) error
	ListUsers(ctx context.Context) (map[string]*journal.User, error)
}

// Sender delivers a message to a user, optionally with a choice menu.
type Sender interface {
	Send(ctx context.Context, userID, text string, menu *Menu) error
}

// PromptSource picks the prompt for a consumption count.
type PromptSource interface {
	Next(count int) prompts.Prompt
}

// Acknowledger writes the reply shown after an entry is saved. history holds
// the user's earlier entries, newest first.
type Acknowledger interface {
	Acknowledge(ctx context.Context, e journal.Entry, history []journal.Entry) string
}

type Options struct {
	Location        *time.Location
	DefaultSchedule journal.SchedulePreference
	MaxHistory      int
	Acknowledger    Acknowledger
	Logger          *zap.Logger
	Now             func() time.Time
}

type Companion struct {
	store      Store
	sender     Sender
	prompts    PromptSource
	ack        Acknowledger
	loc        *time.Location
	defaults   journal.SchedulePreference
	maxHistory int
	now        func() time.Time
	locks      *userLocks
	logger     *zap.Logger
}

func New(store Store, sender Sender, source PromptSource, opts Options) *Companion {
	c := &Companion{
		store:      store,
		sender:     sender,
		prompts:    source,
		ack:        opts.Acknowledger,
		loc:        opts.Location,
		defaults:   opts.DefaultSchedule,
		maxHistory: opts.MaxHistory,
		now:        opts.Now,
		locks:      newUserLocks(),
		logger:     opts.Logger,
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	if c.defaults == (journal.SchedulePreference{}) {
		c.defaults = journal.DefaultSchedule()
	}
	if c.maxHistory <= 0 {
		c.maxHistory = 5
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.ack == nil {
		c.ack = StaticAcknowledger{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.Named("companion")
	return c
}

// Location is the fixed reference zone every user lives in.
func (c *Companion) Location() *time.Location { return c.loc }

// MaxHistory is how many entries the history command shows.
func (c *Companion) MaxHistory() int { return c.maxHistory }

// Now is the current time in the reference zone.
func (c *Companion) Now() time.Time { return c.now().In(c.loc) }

func (c *Companion) load(ctx context.Context, id string) (*journal.User, error) {
	u, err := c.store.GetUser(ctx, id)
	if errors.Is(err, journal.ErrUserNotFound) {
		return nil, journal.ErrUserNotFound
	}
	if err != nil {
		return nil, &journal.PersistenceError{Op: "loading user " + id, Err: err}
	}
	return u, nil
}

// save writes u with the timezone tag normalized. Nothing the caller staged on
// u is visible to other operations unless this returns nil.
func (c *Companion) save(ctx context.Context, u *journal.User) error {
	u.Timezone = c.loc.String()
	if err := c.store.PutUser(ctx, u); err != nil {
		return &journal.PersistenceError{Op: "saving user " + u.ID, Err: err}
	}
	return nil
}

// update runs fn on a staged copy of the user under the user's lock and
// persists the result.
func (c *Companion) update(ctx context.Context, id string, fn func(u *journal.User) error) (*journal.User, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	u, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next := u.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := c.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Snapshot lists all users at this instant.
func (c *Companion) Snapshot(ctx context.Context) ([]*journal.User, error) {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return nil, &journal.PersistenceError{Op: "listing users", Err: err}
	}
	out := make([]*journal.User, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}
	return out, nil
}
