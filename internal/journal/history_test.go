package journal

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesAt(ts ...time.Time) []Entry {
	out := make([]Entry, len(ts))
	for i, t := range ts {
		out[i] = Entry{Prompt: "p", Response: t.Format(time.RFC3339), Timestamp: t, Category: SelfAwareness}
	}
	return out
}

func TestRecent(t *testing.T) {
	t1 := t0
	t2 := t0.Add(time.Hour)
	t3 := t0.Add(2 * time.Hour)
	// stored out of order on purpose
	entries := entriesAt(t2, t1, t3)

	tests := []struct {
		name  string
		limit int
		want  []time.Time
	}{
		{"two newest", 2, []time.Time{t3, t2}},
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"more than stored", 10, []time.Time{t3, t2, t1}},
		{"exact", 3, []time.Time{t3, t2, t1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recent(entries, tt.limit)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.True(t, got[i].Timestamp.Equal(w), "index %d", i)
			}
		})
	}
	// stored order preserved
	assert.True(t, entries[0].Timestamp.Equal(t2))
}

func TestUserRecentEmpty(t *testing.T) {
	u := NewUser("1", "UTC", DefaultSchedule())
	assert.NotNil(t, u.Recent(5))
	assert.Empty(t, u.Recent(5))
}

func TestStats(t *testing.T) {
	u := NewUser("1", "UTC", DefaultSchedule())
	u.Responses = []Entry{
		{Category: SelfAwareness, Timestamp: t0},
		{Category: Connection, Timestamp: t0.Add(time.Hour)},
		{Category: SelfAwareness, Timestamp: t0.Add(30 * time.Minute)},
	}
	u.PromptCount = 4
	u.LastPrompt = &Session{Prompt: "open"}

	s := u.Stats()
	assert.Equal(t, 2, s.SelfAwareness)
	assert.Equal(t, 1, s.Connection)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 4, s.PromptCount)
	assert.True(t, s.Awaiting)
	assert.True(t, s.LastEntry.Equal(t0.Add(time.Hour)))
}

func TestScheduleToggleTwiceRestores(t *testing.T) {
	p := DefaultSchedule()
	assert.Equal(t, p, p.Toggled().Toggled())
	assert.False(t, p.Toggled().Enabled)
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name string
		pref SchedulePreference
		err  error
	}{
		{"default", DefaultSchedule(), nil},
		{"sunday midnight", SchedulePreference{Day: 6, Hour: 0}, nil},
		{"day too big", SchedulePreference{Day: 7, Hour: 9}, ErrInvalidDay},
		{"day negative", SchedulePreference{Day: -1, Hour: 9}, ErrInvalidDay},
		{"hour too big", SchedulePreference{Day: 0, Hour: 24}, ErrInvalidHour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pref.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := DefaultSchedule().WithHour(25)
	assert.ErrorIs(t, err, ErrInvalidHour)
	p, err := DefaultSchedule().WithDay(4)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Day)
}

func TestMatches(t *testing.T) {
	p := SchedulePreference{Day: 2, Hour: 9, Enabled: true}
	assert.True(t, p.Matches(2, 9))
	assert.False(t, p.Matches(3, 9))
	assert.False(t, p.Matches(2, 10))
	p.Enabled = false
	assert.False(t, p.Matches(2, 9))
}

func TestExportText(t *testing.T) {
	feb := time.Date(2025, 2, 27, 8, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Prompt: "second", Response: "b", Timestamp: mar, Category: Connection},
		{Prompt: "first", Response: "a", Timestamp: feb, Category: SelfAwareness},
	}
	out := ExportText(entries, time.UTC)

	assert.Contains(t, out, "== February 2025 ==")
	assert.Contains(t, out, "== March 2025 ==")
	assert.Less(t, strings.Index(out, "Q: first"), strings.Index(out, "Q: second"))
	assert.Contains(t, out, "[Connections]")
	assert.Empty(t, ExportText(nil, time.UTC))
}

func TestExportJSON(t *testing.T) {
	u := NewUser("7", "UTC", DefaultSchedule())
	u.Responses = entriesAt(t0)

	b, err := ExportJSON(u, t0)
	require.NoError(t, err)

	var doc struct {
		UserID  string  `json:"user_id"`
		Entries []Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "7", doc.UserID)
	require.Len(t, doc.Entries, 1)
	assert.True(t, doc.Entries[0].Timestamp.Equal(t0))
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "Monday", DayName(0))
	assert.Equal(t, "Sunday", DayName(6))
	assert.Equal(t, "day 9", DayName(9))
}
