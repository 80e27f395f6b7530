package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-day form used by date pickers and exports
const DateLayout = "2006-01-02"

// Date is a calendar value. It decodes either YYYY-MM-DD or an RFC 3339
// timestamp and encodes back to the short form when there is no time of day.
type Date struct {
	time.Time
}

// NewDate returns the UTC midnight of the given calendar day
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or RFC 3339
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t.UTC()}, nil
}

func (d Date) utc() Date {
	return Date{d.UTC()}
}

func (d Date) dateOnly() bool {
	u := d.UTC()
	return u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	if d.dateOnly() {
		return d.UTC().Format(DateLayout)
	}
	return d.UTC().Format(time.RFC3339Nano)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Assignees holds the ids of the people a task is assigned to.
// Legacy payloads carry a single id string; both forms decode.
type Assignees []string

func (a Assignees) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

func (a *Assignees) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*a = Assignees{}
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		if id == "" {
			*a = Assignees{}
			return nil
		}
		*a = Assignees{id}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(trimmed, &ids); err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	*a = Assignees(ids)
	return nil
}

// Has reports whether personID is among the assignees
func (a Assignees) Has(personID string) bool {
	for _, id := range a {
		if id == personID {
			return true
		}
	}
	return false
}
