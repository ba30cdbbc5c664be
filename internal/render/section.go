package render

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	urlutil "github.com/law-makers/wom/internal/utils/url"
)

// SectionMarkdown converts a located section to Markdown, resolving links
// against baseURL
func SectionMarkdown(section *goquery.Selection, baseURL string) (string, error) {
	if section == nil || section.Length() == 0 {
		return "", nil
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			str := fmt.Sprintf("[%s](%s)", strings.TrimSpace(content), urlutil.ResolveURL(baseURL, href))
			return &str
		},
	})

	outer, err := goquery.OuterHtml(section.First())
	if err != nil {
		return "", fmt.Errorf("failed to serialize section: %w", err)
	}
	out, err := converter.ConvertString(outer)
	if err != nil {
		return "", fmt.Errorf("failed to convert section: %w", err)
	}
	return out, nil
}
