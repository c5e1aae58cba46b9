package companion

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chris/journal/internal/journal"
	"github.com/dustin/go-humanize"
)

// Menu is a single-choice selection the transport renders. Values are the
// integers the companion expects back.
type Menu struct {
	ID          string
	Placeholder string
	Options     []Option
}

type Option struct {
	Label string
	Value string
}

const (
	MenuDay  = "schedule_day"
	MenuHour = "schedule_hour"
)

// DayMenu offers days 0..6, Monday first.
func DayMenu() *Menu {
	m := &Menu{ID: MenuDay, Placeholder: "Pick a day"}
	for d := 0; d <= 6; d++ {
		m.Options = append(m.Options, Option{Label: journal.DayName(d), Value: strconv.Itoa(d)})
	}
	return m
}

// HourMenu offers hours 0..23.
func HourMenu() *Menu {
	m := &Menu{ID: MenuHour, Placeholder: "Pick an hour"}
	for h := 0; h <= 23; h++ {
		m.Options = append(m.Options, Option{Label: fmt.Sprintf("%d:00", h), Value: strconv.Itoa(h)})
	}
	return m
}

const (
	WelcomeText = "Welcome to your personal journaling companion! 🌟\n\n" +
		"I'll send you weekly prompts to help you reflect on:\n" +
		"• Self-awareness 🤔\n" +
		"• Building meaningful connections 🤝\n\n" +
		"Commands:\n" +
		"/prompt - Get a new reflection prompt\n" +
		"/history - View your recent journal entries\n" +
		"/schedule - Manage your prompt schedule\n" +
		"/help - Show all available commands\n\n" +
		"Let's start your journaling journey! Use /prompt to get your first question."

	WelcomeBackText = "Welcome back! 🌟 Use /prompt for a new question or /help to see everything I can do."

	HelpText = "🤖 Available Commands:\n\n" +
		"• /start - Initialize the bot and get started\n" +
		"• /prompt - Get a new reflection prompt\n" +
		"• /history - View your recent journal entries\n" +
		"• /export - Get your whole journal\n" +
		"• /stats - See how many prompts you've answered\n" +
		"• /timezone - Check prompt timings\n" +
		"• /help - Show this help message\n\n" +
		"📅 Schedule Management:\n" +
		"• /schedule - View your current prompt schedule\n" +
		"• /schedule_day - Set the day to receive prompts\n" +
		"• /schedule_time - Set the time to receive prompts\n" +
		"• /schedule_toggle - Turn weekly prompts on/off\n\n" +
		"✨ Reply to a prompt with plain text and it is saved to your journal."

	NotStartedText   = "Please start the bot with /start first!"
	NoPromptText     = "I'm not waiting on an answer right now. Use /prompt to get a new question."
	NoEntriesText    = "You haven't made any journal entries yet. Use /prompt to start!"
	GenericErrorText = "Sorry, something went wrong while processing your request. Please try again later."
	SaveErrorText    = "Sorry, there was an error saving your response. Please try again."
	DayMenuText      = "Select a day to receive your weekly prompts:"
	HourMenuText     = "Select the hour to receive your weekly prompts (24-hour format):"
)

// RenderPrompt is the message that carries a newly opened session.
func RenderPrompt(s journal.Session, how Delivery) string {
	if how == Scheduled {
		return fmt.Sprintf("🌟 Weekly Reflection Time! %s %s\n\n%s\n\nTake a moment to pause and reflect on this question.",
			s.Category.Emoji(), s.Category.Label(), s.Prompt)
	}
	return fmt.Sprintf("🤔 Here's your reflection prompt (%s %s):\n\n%s\n\n"+
		"Take your time to reflect and respond when you're ready. Your response will be saved in your journal.",
		s.Category.Emoji(), s.Category.Label(), s.Prompt)
}

// RenderHistory lists entries as given, newest first expected.
func RenderHistory(entries []journal.Entry, now time.Time, loc *time.Location) string {
	if len(entries) == 0 {
		return NoEntriesText
	}
	var b strings.Builder
	b.WriteString("📖 Your Recent Journal Entries:\n\n")
	for _, e := range entries {
		ts := e.Timestamp.In(loc)
		fmt.Fprintf(&b, "📅 %s (%s)\n", ts.Format("2006-01-02 15:04"), humanize.RelTime(e.Timestamp, now, "ago", "from now"))
		fmt.Fprintf(&b, "Q: %s\n", e.Prompt)
		fmt.Fprintf(&b, "A: %s\n\n", e.Response)
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderSchedule(p journal.SchedulePreference) string {
	status := "disabled"
	if p.Enabled {
		status = "enabled"
	}
	return fmt.Sprintf("📅 Your current prompt schedule:\n\n"+
		"Day: %s\nTime: %d:00\nStatus: %s\n\n"+
		"Use these commands to change your schedule:\n"+
		"/schedule_day - Change the day\n"+
		"/schedule_time - Change the time\n"+
		"/schedule_toggle - Turn weekly prompts on/off",
		journal.DayName(p.Day), p.Hour, status)
}

func RenderDaySet(p journal.SchedulePreference) string {
	day := journal.DayName(p.Day)
	return fmt.Sprintf("✅ Day set to %s! You will receive prompts on %s at %d:00.", day, day, p.Hour)
}

func RenderHourSet(p journal.SchedulePreference) string {
	return fmt.Sprintf("✅ Time set to %d:00! You will receive prompts on %s at %d:00.", p.Hour, journal.DayName(p.Day), p.Hour)
}

func RenderToggle(p journal.SchedulePreference) string {
	if p.Enabled {
		return "✅ Weekly prompts are now enabled."
	}
	return "✅ Weekly prompts are now disabled."
}

func RenderStats(s journal.Stats, now time.Time) string {
	var b strings.Builder
	b.WriteString("📊 Your Progress\n\n")
	fmt.Fprintf(&b, "%s Self-Awareness entries: %d\n", journal.SelfAwareness.Emoji(), s.SelfAwareness)
	fmt.Fprintf(&b, "%s Connection entries: %d\n", journal.Connection.Emoji(), s.Connection)
	fmt.Fprintf(&b, "Total entries: %d\n", s.Total)
	fmt.Fprintf(&b, "Prompts received: %d", s.PromptCount)
	if !s.LastEntry.IsZero() {
		fmt.Fprintf(&b, "\nLast entry: %s", humanize.RelTime(s.LastEntry, now, "ago", "from now"))
	}
	if s.Awaiting {
		b.WriteString("\n\n✏️ You have a prompt waiting for your answer.")
	}
	return b.String()
}

// RenderTimezone explains that every schedule runs in the single reference zone.
func RenderTimezone(now time.Time) string {
	return fmt.Sprintf("🕒 All prompt times use %s.\nIt is currently %s there.",
		now.Location(), now.Format("Monday 15:04"))
}

// RenderExportSummary heads an export with its size.
func RenderExportSummary(entries int, size int) string {
	return fmt.Sprintf("📔 Exporting %d %s (%s).", entries, plural(entries, "entry", "entries"), humanize.Bytes(uint64(size)))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
