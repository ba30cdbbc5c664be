package chart

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/wom/pkg/models"
)

// ExtractEntries reads up to limit ranked entries from the direct li children
// of section. Items without a numeric rank, a title or a link are skipped.
func ExtractEntries(section *goquery.Selection, limit int) []models.Entry {
	entries := []models.Entry{}
	if section == nil || section.Length() == 0 || limit <= 0 {
		return entries
	}

	section.First().ChildrenFiltered("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if e, ok := parseItem(li); ok {
			entries = append(entries, e)
		}
		return len(entries) < limit
	})

	return RepairRanks(entries)
}

func parseItem(li *goquery.Selection) (models.Entry, bool) {
	var e models.Entry

	if no := li.Find("div.no").First(); no.Length() > 0 {
		if rank, ok := parseRank(Text(no)); ok {
			e.Rank = &rank
		}
	}

	if a := li.Find("div.name").First().Find("a").First(); a.Length() > 0 {
		e.Title = Text(a)
		e.URL, _ = a.Attr("href")
	}

	return e, e.Rank != nil && e.Title != "" && e.URL != ""
}

func parseRank(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// RepairRanks renumbers every entry 1..N in order when any of them has no
// rank. Batches where all ranks are present are returned untouched.
func RepairRanks(entries []models.Entry) []models.Entry {
	missing := false
	for _, e := range entries {
		if e.Rank == nil {
			missing = true
			break
		}
	}
	if !missing {
		return entries
	}

	for i := range entries {
		rank := i + 1
		entries[i].Rank = &rank
	}
	return entries
}
