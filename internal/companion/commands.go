package companion

import (
	"context"

	"github.com/chris/journal/internal/journal"
	"go.uber.org/zap"
)

// History returns the configured number of most recent entries.
func (c *Companion) History(ctx context.Context, id string) ([]journal.Entry, error) {
	return c.Recent(ctx, id, c.maxHistory)
}

func (c *Companion) Recent(ctx context.Context, id string, limit int) ([]journal.Entry, error) {
	u, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Recent(limit), nil
}

func (c *Companion) Schedule(ctx context.Context, id string) (journal.SchedulePreference, error) {
	u, err := c.load(ctx, id)
	if err != nil {
		return journal.SchedulePreference{}, err
	}
	return u.Schedule, nil
}

// SetScheduleDay changes the delivery day; day 0 is Monday.
func (c *Companion) SetScheduleDay(ctx context.Context, id string, day int) (journal.SchedulePreference, error) {
	return c.setSchedule(ctx, id, func(p journal.SchedulePreference) (journal.SchedulePreference, error) {
		return p.WithDay(day)
	})
}

func (c *Companion) SetScheduleHour(ctx context.Context, id string, hour int) (journal.SchedulePreference, error) {
	return c.setSchedule(ctx, id, func(p journal.SchedulePreference) (journal.SchedulePreference, error) {
		return p.WithHour(hour)
	})
}

// ToggleSchedule flips the enabled flag and returns the new preference.
func (c *Companion) ToggleSchedule(ctx context.Context, id string) (journal.SchedulePreference, error) {
	return c.setSchedule(ctx, id, func(p journal.SchedulePreference) (journal.SchedulePreference, error) {
		return p.Toggled(), nil
	})
}

func (c *Companion) setSchedule(ctx context.Context, id string, change func(journal.SchedulePreference) (journal.SchedulePreference, error)) (journal.SchedulePreference, error) {
	u, err := c.update(ctx, id, func(u *journal.User) error {
		p, err := change(u.Schedule)
		if err != nil {
			return err
		}
		u.Schedule = p
		return nil
	})
	if err != nil {
		return journal.SchedulePreference{}, err
	}
	c.logger.Info("updated schedule",
		zap.String("user_id", id),
		zap.Int("day", u.Schedule.Day),
		zap.Int("hour", u.Schedule.Hour),
		zap.Bool("enabled", u.Schedule.Enabled),
	)
	return u.Schedule, nil
}

// User returns the full record, for export.
func (c *Companion) User(ctx context.Context, id string) (*journal.User, error) {
	return c.load(ctx, id)
}

func (c *Companion) Stats(ctx context.Context, id string) (journal.Stats, error) {
	u, err := c.load(ctx, id)
	if err != nil {
		return journal.Stats{}, err
	}
	return u.Stats(), nil
}
