package chart

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Keyword identifies the weekly ranking heading ("one-week word-of-mouth chart")
const Keyword = "一周口碑榜"

const (
	headingSelector = "h2"
	listSelector    = "ul.content"
	fallbackList    = "ul#listCont2"
	markerClass     = "content"
	siblingWindow   = 5
)

// Target is what a Strategy searches: the document and the heading that
// introduced the chart
type Target struct {
	Doc     *goquery.Document
	Heading *goquery.Selection
}

// Strategy is one way of finding the ranking list. Find returns nil when the
// strategy does not apply.
type Strategy struct {
	Name string
	Find func(Target) *goquery.Selection
}

// Strategies are tried in order; the first hit wins. Proximity to the heading
// comes before document-wide matching.
var Strategies = []Strategy{
	{Name: "parent", Find: listInParent},
	{Name: "sibling", Find: listInSiblings},
	{Name: "list-id", Find: listByID},
	{Name: "first-content", Find: firstContentList},
}

// FindHeading returns the first h2 whose text contains Keyword, or nil
func FindHeading(doc *goquery.Document) *goquery.Selection {
	if doc == nil {
		return nil
	}
	var found *goquery.Selection
	doc.Find(headingSelector).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(Text(h), Keyword) {
			found = h
			return false
		}
		return true
	})
	return found
}

// Locate returns the list holding the weekly ranking, or nil
func Locate(doc *goquery.Document) *goquery.Selection {
	sel, _ := LocateWith(doc)
	return sel
}

// LocateWith is Locate that also reports which strategy matched
func LocateWith(doc *goquery.Document) (*goquery.Selection, string) {
	return LocateFrom(doc, FindHeading(doc))
}

// LocateFrom runs the strategies against an already resolved heading. A nil
// heading means the page has no weekly chart and nothing else is tried.
func LocateFrom(doc *goquery.Document, heading *goquery.Selection) (*goquery.Selection, string) {
	if doc == nil || heading == nil || heading.Length() == 0 {
		log.Debug().Msg("Weekly heading not found")
		return nil, ""
	}

	target := Target{Doc: doc, Heading: heading}
	for _, s := range Strategies {
		if sel := s.Find(target); sel != nil && sel.Length() > 0 {
			log.Debug().Str("strategy", s.Name).Msg("Located weekly section")
			return sel, s.Name
		}
	}

	log.Debug().Msg("Weekly heading found but no list matched")
	return nil, ""
}

func listInParent(t Target) *goquery.Selection {
	parent := t.Heading.Parent()
	if parent.Length() == 0 {
		return nil
	}
	return nonEmpty(parent.Find(listSelector).First())
}

// listInSiblings walks raw siblings, so whitespace text between tags uses up
// part of the window
func listInSiblings(t Target) *goquery.Selection {
	n := t.Heading.Nodes[0].NextSibling
	for i := 0; i < siblingWindow && n != nil; i, n = i+1, n.NextSibling {
		if n.Type == html.ElementNode && n.DataAtom == atom.Ul && hasClass(n, markerClass) {
			return t.Doc.FindNodes(n)
		}
	}
	return nil
}

func listByID(t Target) *goquery.Selection {
	return nonEmpty(t.Doc.Find(fallbackList).First())
}

func firstContentList(t Target) *goquery.Selection {
	return nonEmpty(t.Doc.Find(listSelector).First())
}

func nonEmpty(sel *goquery.Selection) *goquery.Selection {
	if sel.Length() == 0 {
		return nil
	}
	return sel
}
