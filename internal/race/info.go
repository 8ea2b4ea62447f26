package race

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/table"
	"github.com/pfrederiksen/procyclingstats/internal/timefmt"
)

func name(doc *goquery.Document) (string, error) {
	heading := doc.Find(".page-title > .main > h1").First()
	if heading.Length() == 0 {
		return "", fmt.Errorf("race name heading not found")
	}
	return table.CleanText(heading.Text()), nil
}

// info returns the value next to label in the page's info list
func info(doc *goquery.Document, label string) (string, bool) {
	var value string
	found := false
	doc.Find("ul.infolist > li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		divs := li.ChildrenFiltered("div")
		if divs.Length() < 2 || table.CleanText(divs.First().Text()) != label {
			return true
		}
		value = table.CleanText(divs.Eq(1).Text())
		found = true
		return false
	})
	return value, found
}

// date reads "1 July 2022, 16:00", the start time is dropped
func date(doc *goquery.Document) (string, error) {
	text, ok := info(doc, "Date:")
	if !ok || text == "" {
		return "", field.Unavailablef("no race date")
	}
	day, _, _ := strings.Cut(text, ",")
	return timefmt.ConvertDate(day)
}

func distance(doc *goquery.Document) (float64, error) {
	text, ok := info(doc, "Distance:")
	if !ok {
		return 0, field.Unavailablef("no distance")
	}
	km, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(text, "km")), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing distance %q: %w", text, err)
	}
	return km, nil
}

// stageType classifies the stage from its subtitle, "Stage 1 (ITT)"
func stageType(doc *goquery.Document) (string, error) {
	sub := doc.Find(".page-title > .sub").First()
	if sub.Length() == 0 {
		return "", field.Unavailablef("no stage subtitle")
	}
	text := sub.Text()
	switch {
	case strings.Contains(text, "(ITT)"):
		return "ITT", nil
	case strings.Contains(text, "(TTT)"):
		return "TTT", nil
	default:
		return "RR", nil
	}
}
