package models

import (
	"encoding/json"
	"time"
)

// Entry is one ranked line of the weekly chart
type Entry struct {
	Rank  *int   `json:"rank"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// WeeklyResult is what a single chart page yields
type WeeklyResult struct {
	WeekLabel *string `json:"week_label"`
	Entries   []Entry `json:"entries"`
}

// PageResult is a WeeklyResult together with where it came from.
//
// A PageResult with Error set is a failure marker; it serializes to
// {"error": ...} (plus "timestamp" for archived pages) and nothing else.
type PageResult struct {
	WeeklyResult
	Source    string
	IsArchive bool
	YearGuess *int
	Timestamp string
	Error     string
}

// Failed reports whether the result is a failure marker
func (p PageResult) Failed() bool {
	return p.Error != ""
}

type pageFailureJSON struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
}

type pageResultJSON struct {
	Source    string  `json:"source"`
	IsArchive bool    `json:"is_archive"`
	YearGuess *int    `json:"year_guess"`
	Timestamp string  `json:"timestamp,omitempty"`
	WeekLabel *string `json:"week_label"`
	Entries   []Entry `json:"entries"`
}

// MarshalJSON implements json.Marshaler
func (p PageResult) MarshalJSON() ([]byte, error) {
	if p.Failed() {
		return json.Marshal(pageFailureJSON{Error: p.Error, Timestamp: p.Timestamp})
	}
	entries := p.Entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(pageResultJSON{
		Source:    p.Source,
		IsArchive: p.IsArchive,
		YearGuess: p.YearGuess,
		Timestamp: p.Timestamp,
		WeekLabel: p.WeekLabel,
		Entries:   entries,
	})
}

// Snapshot is one row of the archive index
type Snapshot struct {
	Timestamp string            `json:"timestamp"`
	Original  string            `json:"original,omitempty"`
	Fields    map[string]string `json:"-"`
}

// Field returns the named index column, or "" when the row lacks it
func (s Snapshot) Field(name string) string {
	return s.Fields[name]
}

// Report is the single document emitted per invocation
type Report struct {
	GeneratedAt    time.Time    `json:"generated_at"`
	RunID          string       `json:"run_id,omitempty"`
	Current        PageResult   `json:"current"`
	RecentArchives []PageResult `json:"recent_archives"`
	Notes          []string     `json:"notes"`
}
