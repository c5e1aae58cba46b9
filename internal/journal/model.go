package journal

import (
	"fmt"
	"time"
)

type Category string

const (
	SelfAwareness Category = "self_awareness"
	Connection    Category = "connection"
)

// Label is the human-readable category name.
func (c Category) Label() string {
	switch c {
	case SelfAwareness:
		return "Self-Awareness"
	case Connection:
		return "Connections"
	default:
		return string(c)
	}
}

func (c Category) Emoji() string {
	if c == SelfAwareness {
		return "🧠"
	}
	return "🤝"
}

func (c Category) Valid() bool {
	return c == SelfAwareness || c == Connection
}

// Entry is a completed journal response. Entries are never mutated after creation.
type Entry struct {
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
	Category  Category  `json:"category"`
}

// Session is an issued prompt that has not been answered yet.
type Session struct {
	Prompt   string    `json:"text"`
	Category Category  `json:"type"`
	IssuedAt time.Time `json:"timestamp"`
}

const (
	DefaultDay  = 0 // Monday
	DefaultHour = 9
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName returns the name for a day index where 0 is Monday.
func DayName(day int) string {
	if day < 0 || day > 6 {
		return fmt.Sprintf("day %d", day)
	}
	return dayNames[day]
}

// SchedulePreference is a weekly delivery slot. Day 0 is Monday, 6 is Sunday.
type SchedulePreference struct {
	Day     int  `json:"day"`
	Hour    int  `json:"hour"`
	Enabled bool `json:"enabled"`
}

func DefaultSchedule() SchedulePreference {
	return SchedulePreference{Day: DefaultDay, Hour: DefaultHour, Enabled: true}
}

func (p SchedulePreference) Validate() error {
	if p.Day < 0 || p.Day > 6 {
		return fmt.Errorf("%w: %d", ErrInvalidDay, p.Day)
	}
	if p.Hour < 0 || p.Hour > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidHour, p.Hour)
	}
	return nil
}

func (p SchedulePreference) WithDay(day int) (SchedulePreference, error) {
	p.Day = day
	return p, p.Validate()
}

func (p SchedulePreference) WithHour(hour int) (SchedulePreference, error) {
	p.Hour = hour
	return p, p.Validate()
}

func (p SchedulePreference) Toggled() SchedulePreference {
	p.Enabled = !p.Enabled
	return p
}

// Matches reports whether the preference fires in the given slot.
func (p SchedulePreference) Matches(day, hour int) bool {
	return p.Enabled && p.Day == day && p.Hour == hour
}

type User struct {
	ID          string             `json:"id"`
	Timezone    string             `json:"timezone"`
	LastPrompt  *Session           `json:"last_prompt"`
	Responses   []Entry            `json:"responses"`
	Schedule    SchedulePreference `json:"schedule_preference"`
	PromptCount int                `json:"prompt_count"`
}

// NewUser returns an idle user with no entries.
func NewUser(id, timezone string, schedule SchedulePreference) *User {
	return &User{
		ID:        id,
		Timezone:  timezone,
		Responses: []Entry{},
		Schedule:  schedule,
	}
}

// Clone returns a deep copy so mutations can be staged before they are persisted.
func (u *User) Clone() *User {
	c := *u
	if u.LastPrompt != nil {
		s := *u.LastPrompt
		c.LastPrompt = &s
	}
	c.Responses = make([]Entry, len(u.Responses))
	copy(c.Responses, u.Responses)
	return &c
}
