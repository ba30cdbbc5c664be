package render

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/law-makers/wom/pkg/models"
)

// WriteMarkdown renders the report as a Markdown document with one table per
// chart page
func WriteMarkdown(w io.Writer, report *models.Report) error {
	md := markdown.NewMarkdown(w)

	md.H1("Weekly Word-of-Mouth Chart")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", report.GeneratedAt.Format(time.RFC3339)},
			{"Run", report.RunID},
			{"Archived weeks", strconv.Itoa(len(report.RecentArchives))},
		},
	})
	md.PlainText("")

	md.H2("Current")
	md.PlainText("")
	writePage(md, report.Current)

	if len(report.RecentArchives) > 0 {
		md.H2("Archived Weeks")
		md.PlainText("")
		for _, page := range report.RecentArchives {
			md.H3(pageHeading(page))
			md.PlainText("")
			writePage(md, page)
		}
	}

	if len(report.Notes) > 0 {
		md.H2("Notes")
		md.PlainText("")
		md.BulletList(report.Notes...)
		md.PlainText("")
	}

	return md.Build()
}

func pageHeading(page models.PageResult) string {
	if page.Timestamp == "" {
		return "Snapshot"
	}
	return "Snapshot " + page.Timestamp
}

func writePage(md *markdown.Markdown, page models.PageResult) {
	if page.Failed() {
		md.Warningf("%s", page.Error)
		md.PlainText("")
		return
	}

	if page.WeekLabel != nil {
		md.PlainTextf("Week: %s", *page.WeekLabel)
	}
	md.PlainTextf("Source: %s", markdown.Link(page.Source, page.Source))
	md.PlainText("")

	if len(page.Entries) == 0 {
		md.Note("No ranking found on this page.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(page.Entries))
	for _, e := range page.Entries {
		rank := ""
		if e.Rank != nil {
			rank = strconv.Itoa(*e.Rank)
		}
		rows = append(rows, []string{rank, markdown.Link(e.Title, e.URL)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Title"},
		Rows:   rows,
	})
	md.PlainText("")
}
