package rider

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/table"
	"github.com/pfrederiksen/procyclingstats/internal/timefmt"
)

// Selectors of the info block. Riders with sparse profiles nest everything
// one span deeper; the second selector of each pair covers that layout.
const (
	infoSelector         = ".rdr-info-cont"
	nameSelector         = ".page-title > .main > h1"
	spanSelector         = ".rdr-info-cont > span"
	nestedSpanSelector   = ".rdr-info-cont > span > span"
	deepSpanSelector     = ".rdr-info-cont > span > span > span"
	flagSelector         = ".rdr-info-cont > .flag"
	birthPlaceSelector   = ".rdr-info-cont > span > span > a"
	deepBirthPlaceSelect = ".rdr-info-cont > span > span > span > a"
)

func name(doc *goquery.Document) (string, error) {
	heading := doc.Find(nameSelector).First()
	if heading.Length() == 0 {
		return "", fmt.Errorf("rider name heading %q not found", nameSelector)
	}
	return table.CleanText(heading.Text()), nil
}

// birthdate reads the text placed directly in the info block, where the day,
// month and year are the first three words.
func birthdate(doc *goquery.Document) (string, error) {
	var direct []string
	doc.Find(infoSelector).First().Contents().Each(func(_ int, s *goquery.Selection) {
		if n := s.Get(0); n.Type == html.TextNode {
			direct = append(direct, n.Data)
		}
	})
	words := strings.Fields(strings.Join(direct, " "))
	if len(words) < 3 {
		return "", field.Unavailablef("no birthdate")
	}
	date, err := timefmt.ConvertDate(strings.Join(words[:3], " "))
	if err != nil {
		return "", field.Unavailablef("birthdate: %v", err)
	}
	return date, nil
}

func placeOfBirth(doc *goquery.Document) (string, error) {
	for _, selector := range []string{birthPlaceSelector, deepBirthPlaceSelect} {
		if a := doc.Find(selector).First(); a.Length() > 0 {
			return table.CleanText(a.Text()), nil
		}
	}
	return "", field.Unavailablef("no place of birth")
}

func weight(doc *goquery.Document) (int, error) {
	for _, selector := range []string{spanSelector, nestedSpanSelector} {
		spans := doc.Find(selector)
		if spans.Length() < 2 {
			continue
		}
		if v, ok := secondWord(spans.Eq(1).Text()); ok {
			if kg, err := strconv.Atoi(v); err == nil {
				return kg, nil
			}
		}
	}
	return 0, field.Unavailablef("no weight")
}

func height(doc *goquery.Document) (float64, error) {
	for _, selector := range []string{nestedSpanSelector, deepSpanSelector} {
		span := doc.Find(selector).First()
		if span.Length() == 0 {
			continue
		}
		if v, ok := secondWord(span.Text()); ok {
			if m, err := strconv.ParseFloat(v, 64); err == nil {
				return m, nil
			}
		}
	}
	return 0, field.Unavailablef("no height")
}

// nationality reads the country code from the flag's last class, "flag si"
func nationality(doc *goquery.Document) (string, error) {
	flag := doc.Find(flagSelector).First()
	if flag.Length() == 0 {
		flag = doc.Find(nestedSpanSelector).First()
	}
	class, ok := flag.Attr("class")
	if !ok {
		return "", field.Unavailablef("no nationality flag")
	}
	classes := strings.Fields(class)
	if len(classes) == 0 {
		return "", field.Unavailablef("no nationality flag")
	}
	return strings.ToUpper(classes[len(classes)-1]), nil
}

// secondWord returns the value of "Label: value unit" texts
func secondWord(text string) (string, bool) {
	words := strings.Fields(table.CleanText(text))
	if len(words) < 2 {
		return "", false
	}
	return words[1], true
}
