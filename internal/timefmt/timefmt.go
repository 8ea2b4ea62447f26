// Package timefmt decodes the free-text dates and race times found on
// procyclingstats.com pages.
package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayMonthPattern = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+)`)
	ordinalSuffix   = regexp.MustCompile(`(\d)(?:st|nd|rd|th)\b`)
)

// ParseMonth accepts full ("September") or abbreviated ("Sep") month names
func ParseMonth(name string) (time.Month, error) {
	name = strings.TrimSpace(name)
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, name); err == nil {
			return t.Month(), nil
		}
	}
	return 0, fmt.Errorf("unknown month: %q", name)
}

// DayMonth extracts the first "<day> <month>" pair in text and returns it in
// MM-DD format. "as from 15 June" yields "06-15".
func DayMonth(text string) (string, error) {
	matches := dayMonthPattern.FindAllStringSubmatch(text, -1)
	for _, m := range matches {
		month, err := ParseMonth(m[2])
		if err != nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		if day < 1 || day > 31 {
			return "", fmt.Errorf("day out of range in %q", text)
		}
		return fmt.Sprintf("%02d-%02d", int(month), day), nil
	}
	return "", fmt.Errorf("no day and month in %q", text)
}

// ConvertDate converts "21 September 1998" (ordinal suffixes allowed) to
// "1998-09-21".
func ConvertDate(date string) (string, error) {
	date = ordinalSuffix.ReplaceAllString(strings.TrimSpace(date), "$1")
	date = strings.Join(strings.Fields(date), " ")
	for _, layout := range []string{"2 January 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date: %q", date)
}

// FormatTime left-pads a race time to HH:MM:SS. "5:12" becomes "00:05:12".
func FormatTime(t string) (string, error) {
	d, err := parseClock(t)
	if err != nil {
		return "", err
	}
	return formatClock(d), nil
}

// AddTime sums two race times. Results shorter than a day are HH:MM:SS,
// longer ones carry the day count as "D HH:MM:SS".
func AddTime(t1, t2 string) (string, error) {
	a, err := parseClock(t1)
	if err != nil {
		return "", err
	}
	b, err := parseClock(t2)
	if err != nil {
		return "", err
	}
	return formatClock(a + b), nil
}

func parseClock(t string) (time.Duration, error) {
	t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "+"))
	parts := strings.Split(t, ":")
	if t == "" || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time: %q", t)
	}
	var total time.Duration
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time: %q", t)
		}
		total = total*60 + time.Duration(n)
	}
	return total * time.Second, nil
}

func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	days := secs / 86400
	secs %= 86400
	clock := fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	if days > 0 {
		return fmt.Sprintf("%d %s", days, clock)
	}
	return clock
}
