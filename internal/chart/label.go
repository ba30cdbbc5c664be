package chart

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// labelCutset is stripped from both ends of a heading once the keyword is gone
const labelCutset = "· ."

// ExtractLabel returns the week label of the chart, e.g. "11月28日 更新"
func ExtractLabel(doc *goquery.Document) *string {
	return LabelFrom(FindHeading(doc))
}

// LabelFrom reads the label off a resolved heading. A nested span wins;
// otherwise the heading text minus the keyword is used.
func LabelFrom(heading *goquery.Selection) *string {
	if heading == nil || heading.Length() == 0 {
		return nil
	}

	if span := heading.Find("span").First(); span.Length() > 0 {
		return optional(Text(span))
	}

	cleaned := Normalize(strings.ReplaceAll(Text(heading), Keyword, ""))
	return optional(strings.Trim(cleaned, labelCutset))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
