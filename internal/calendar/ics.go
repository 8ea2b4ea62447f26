// Package calendar exports race days as iCalendar (.ics) files.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/pageurl"
)

// Entry is one all-day calendar event
type Entry struct {
	UID         string
	Summary     string
	Description string
	Date        time.Time
	URL         string
}

// EntryFromRecord builds an entry from a race record with "name" and "date"
// (YYYY-MM-DD) fields. It reports false when either is missing.
func EntryFromRecord(url string, rec *field.Record) (Entry, bool) {
	name, _ := rec.Get("name")
	date, _ := rec.Get("date")
	summary, ok := name.(string)
	if !ok || summary == "" {
		return Entry{}, false
	}
	day, ok := date.(string)
	if !ok {
		return Entry{}, false
	}
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return Entry{}, false
	}

	var details []string
	if v, _ := rec.Get("stage_type"); v != nil {
		details = append(details, fmt.Sprintf("Type: %v", v))
	}
	if v, _ := rec.Get("distance"); v != nil {
		details = append(details, fmt.Sprintf("Distance: %v km", v))
	}

	return Entry{
		UID:         url,
		Summary:     summary,
		Description: strings.Join(details, "\n"),
		Date:        t,
		URL:         pageurl.Absolute(url),
	}, true
}

// GenerateICS generates an iCalendar document holding every entry
func GenerateICS(entries []Entry, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//procyclingstats//pcs//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	for _, e := range entries {
		ics.WriteString("BEGIN:VEVENT\r\n")
		ics.WriteString(fmt.Sprintf("UID:%s@procyclingstats.com\r\n", strings.ReplaceAll(e.UID, "/", "-")))
		ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

		// races are all-day events, DTEND is exclusive
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", e.Date.Format("20060102")))
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", e.Date.AddDate(0, 0, 1).Format("20060102")))

		ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(e.Summary)))
		if e.Description != "" {
			ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(e.Description)))
		}
		if e.URL != "" {
			ics.WriteString(fmt.Sprintf("URL:%s\r\n", e.URL))
		}
		ics.WriteString("TRANSP:TRANSPARENT\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// RFC 5545 text escaping
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
