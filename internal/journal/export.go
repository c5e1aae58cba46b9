package journal

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ExportText renders every entry oldest first, grouped by month in loc.
func ExportText(entries []Entry, loc *time.Location) string {
	if len(entries) == 0 {
		return ""
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var b strings.Builder
	b.WriteString("📔 YOUR JOURNAL EXPORT 📔\n")
	month := ""
	for _, e := range sorted {
		ts := e.Timestamp.In(loc)
		if m := ts.Format("January 2006"); m != month {
			month = m
			fmt.Fprintf(&b, "\n== %s ==\n\n", month)
		}
		fmt.Fprintf(&b, "📅 %s [%s]\n", ts.Format("2006-01-02 15:04"), e.Category.Label())
		fmt.Fprintf(&b, "Q: %s\n", e.Prompt)
		fmt.Fprintf(&b, "A: %s\n\n", e.Response)
	}
	return b.String()
}

type exportDoc struct {
	UserID     string    `json:"user_id"`
	ExportedAt time.Time `json:"exported_at"`
	Entries    []Entry   `json:"entries"`
}

// ExportJSON renders the user's entries as an indented JSON document.
func ExportJSON(u *User, now time.Time) ([]byte, error) {
	doc := exportDoc{UserID: u.ID, ExportedAt: now, Entries: u.Responses}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return b, nil
}
