package journal

import (
	"sort"
	"time"
)

// Recent returns up to limit entries, newest first. The stored order is left alone.
func (u *User) Recent(limit int) []Entry {
	return Recent(u.Responses, limit)
}

func Recent(entries []Entry, limit int) []Entry {
	if limit <= 0 || len(entries) == 0 {
		return []Entry{}
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

type Stats struct {
	SelfAwareness int
	Connection    int
	Total         int
	PromptCount   int
	Awaiting      bool
	LastEntry     time.Time
}

func (u *User) Stats() Stats {
	s := Stats{
		Total:       len(u.Responses),
		PromptCount: u.PromptCount,
		Awaiting:    u.State() == AwaitingResponse,
	}
	for _, e := range u.Responses {
		switch e.Category {
		case SelfAwareness:
			s.SelfAwareness++
		case Connection:
			s.Connection++
		}
		if e.Timestamp.After(s.LastEntry) {
			s.LastEntry = e.Timestamp
		}
	}
	return s
}
