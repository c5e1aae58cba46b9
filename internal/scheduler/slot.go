package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/chris/journal/internal/journal"
)

// Slot is a weekly (day, hour) position. Day 0 is Monday.
type Slot struct {
	Day  int
	Hour int
}

// SlotAt converts t into the slot it falls in, in loc.
func SlotAt(t time.Time, loc *time.Location) Slot {
	lt := t.In(loc)
	return Slot{Day: (int(lt.Weekday()) + 6) % 7, Hour: lt.Hour()}
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %02d:00", journal.DayName(s.Day), s.Hour)
}

// Due returns the ids of users whose enabled preference matches slot, sorted.
// It has no side effects.
func Due(users []*journal.User, slot Slot) []string {
	var ids []string
	for _, u := range users {
		if u == nil {
			continue
		}
		if u.Schedule.Matches(slot.Day, slot.Hour) {
			ids = append(ids, u.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// windowKey names the hourly window t falls in, so the same slot next week is
// a different window.
func windowKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02T15")
}
