package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/wom/pkg/models"
	"github.com/rs/zerolog/log"
)

// DefaultLimit is how many entries a page contributes
const DefaultLimit = 5

// Parse builds a document from raw HTML
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseWeekly extracts the week label and the first limit entries from a
// chart page. The heading is resolved once and shared by the label and the
// section lookup.
func ParseWeekly(page string, limit int) (models.WeeklyResult, error) {
	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		return models.WeeklyResult{Entries: []models.Entry{}}, err
	}

	heading := FindHeading(doc)
	section, strategy := LocateFrom(doc, heading)
	result := models.WeeklyResult{
		WeekLabel: LabelFrom(heading),
		Entries:   ExtractEntries(section, limit),
	}

	log.Debug().
		Str("strategy", strategy).
		Int("entries", len(result.Entries)).
		Bool("labelled", result.WeekLabel != nil).
		Msg("Parsed weekly chart")

	return result, nil
}
